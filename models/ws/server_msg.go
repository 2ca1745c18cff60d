package wsmodels

type ServerMessage struct {
	ToUserID string         `json:"-"`
	ID       string         `json:"id"`   // ИД уведомления
	Time     int64          `json:"time"` // время события, мс
	Code     string         `json:"code"` // код события
	Title    string         `json:"title"`
	Msg      string         `json:"msg"` // текст события
	Data     map[string]any `json:"data,omitempty"`
}
