package profilehandler

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	filestorage "noblelift-backend/lib/file-storage"
	profilestatusstore "noblelift-backend/lib/profile/status-store"
	profilestore "noblelift-backend/lib/profile/store"
	usersstore "noblelift-backend/lib/users/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/models"
	apimodels "noblelift-backend/models/api"
	userapimodels "noblelift-backend/models/api/user"
	dbmodels "noblelift-backend/models/db"
)

type fakeProfileStore struct {
	profilestore.Provider
	profiles map[string]dbmodels.Profile
}

func (f *fakeProfileStore) Create(rec dbmodels.Profile) error {
	f.profiles[rec.UserID] = rec
	return nil
}

func (f *fakeProfileStore) GetByUserID(userID string) (*dbmodels.Profile, error) {
	rec, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeProfileStore) Update(userID string, updMap map[string]interface{}) error {
	rec := f.profiles[userID]
	if value, ok := updMap["status_code"]; ok {
		rec.StatusCode = value.(models.ProfileStatusCode)
	}
	if value, ok := updMap["arrived_at"]; ok {
		at := value.(time.Time)
		rec.ArrivedAt = &at
	}
	f.profiles[userID] = rec
	return nil
}

type fakeStatusStore struct {
	profilestatusstore.Provider
}

func (fakeStatusStore) GetByCode(code models.ProfileStatusCode) (*dbmodels.ProfileStatus, error) {
	for _, known := range models.DefaultProfileStatuses {
		if known == code {
			return &dbmodels.ProfileStatus{Code: code, Label: code.ToHuman()}, nil
		}
	}
	return nil, nil
}

type fakeUsersStore struct {
	usersstore.Provider
	profiles *fakeProfileStore
	avatar   *string
}

func (f *fakeUsersStore) GetByID(userID string) (*dbmodels.User, error) {
	rec := dbmodels.User{FullName: "Петров Петр", AvatarUrl: f.avatar}
	rec.ID = userID
	if profile, ok := f.profiles.profiles[userID]; ok {
		rec.Profile = &profile
	}
	return &rec, nil
}

func (f *fakeUsersStore) Update(userID string, updMap map[string]interface{}) error {
	if value, ok := updMap["avatar_url"]; ok {
		avatar := value.(string)
		f.avatar = &avatar
	}
	return nil
}

type fakeFiles struct {
	filestorage.Provider
	puts []string
}

func (f *fakeFiles) PutAvatar(ctx context.Context, userID, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	key := filestorage.AvatarKey(userID, fileName)
	f.puts = append(f.puts, key)
	return key, nil
}

func (f *fakeFiles) GetFile(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	return io.NopCloser(strings.NewReader("img")), 3, nil
}

type clock struct {
	at time.Time
}

func (c *clock) now() time.Time {
	return c.at
}

func getInstance(c *clock) (impl, *fakeProfileStore, *fakeFiles) {
	profiles := &fakeProfileStore{profiles: map[string]dbmodels.Profile{}}
	users := &fakeUsersStore{profiles: profiles}
	files := &fakeFiles{}
	return impl{
		transaction: func(fc func(tx *gorm.DB) error) error { return fc(nil) },
		store:       func(tx *gorm.DB) profilestore.Provider { return profiles },
		statusStore: func(tx *gorm.DB) profilestatusstore.Provider { return fakeStatusStore{} },
		usersStore:  func(tx *gorm.DB) usersstore.Provider { return users },
		files:       files,
		now:         c.now,
	}, profiles, files
}

var employee = models.Actor{UserID: "u-1", Role: models.EmployeeRole}

func TestChangeStatus(t *testing.T) {
	morning := time.Date(2026, 3, 2, 8, 55, 0, 0, time.Local)
	c := &clock{at: morning}
	i, profiles, _ := getInstance(c)

	t.Run(`first presence sets arrival`, func(t *testing.T) {
		user, err := i.ChangeStatus(employee, userapimodels.StatusChange{StatusCode: "remote"})
		require.NoError(t, err)
		require.Equal(t, "remote", user.Profile.Status.Code)
		require.Equal(t, morning, *profiles.profiles[employee.UserID].ArrivedAt)
	})
	t.Run(`same day keeps arrival`, func(t *testing.T) {
		c.at = morning.Add(2 * time.Hour)
		_, err := i.ChangeStatus(employee, userapimodels.StatusChange{StatusCode: "meeting"})
		require.NoError(t, err)
		_, err = i.ChangeStatus(employee, userapimodels.StatusChange{StatusCode: "in_office"})
		require.NoError(t, err)
		require.Equal(t, morning, *profiles.profiles[employee.UserID].ArrivedAt)
	})
	t.Run(`next day resets arrival`, func(t *testing.T) {
		c.at = morning.Add(24 * time.Hour)
		_, err := i.ChangeStatus(employee, userapimodels.StatusChange{StatusCode: "in_office"})
		require.NoError(t, err)
		require.Equal(t, c.at, *profiles.profiles[employee.UserID].ArrivedAt)
	})
	t.Run(`unknown status`, func(t *testing.T) {
		_, err := i.ChangeStatus(employee, userapimodels.StatusChange{StatusCode: "sleeping"})
		require.EqualError(t, err, "bad_request: Status code not found")
	})
}

func TestAvatar(t *testing.T) {
	i, _, files := getInstance(&clock{at: time.Now()})
	ctx := context.Background()

	t.Run(`upload`, func(t *testing.T) {
		user, err := i.UploadAvatar(ctx, employee, apimodels.UploadFile{
			Name:        "Фото.PNG",
			ContentType: "image/png",
			Size:        3,
			Reader:      strings.NewReader("img"),
		})
		require.NoError(t, err)
		require.Len(t, files.puts, 1)
		require.True(t, strings.HasPrefix(*user.AvatarUrl, AvatarURLPrefix+"u-1_"))
		require.True(t, strings.HasSuffix(*user.AvatarUrl, ".png"))
	})
	t.Run(`not an image`, func(t *testing.T) {
		_, err := i.UploadAvatar(ctx, employee, apimodels.UploadFile{Name: "a.txt", ContentType: "text/plain", Reader: strings.NewReader("x")})
		require.True(t, apperrors.IsCode(err, apperrors.CodeBadRequest))
	})
	t.Run(`path traversal`, func(t *testing.T) {
		_, _, err := i.Avatar(ctx, "../docs/secret.pdf")
		require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
		body, size, err := i.Avatar(ctx, "u-1_abcdef12.png")
		require.NoError(t, err)
		require.EqualValues(t, 3, size)
		require.NoError(t, body.Close())
	})
}
