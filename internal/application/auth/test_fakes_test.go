package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/9778060/socialapi/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byEmail map[string]domain.User
	nextID  int64

	// injected errors (if set, method returns error)
	getByEmailErr   error
	createErr       error
	setConfirmedErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]domain.User{}}
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.User{}, domain.ErrUserExists()
	}
	f.nextID++
	u.ID = f.nextID
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) SetConfirmed(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setConfirmedErr != nil {
		return f.setConfirmedErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.Confirmed = true
	f.byEmail[email] = u
	return nil
}

/*
fakeHasher avoids bcrypt cost in unit tests; hashes are "h:" + password.
*/

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "h:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "h:"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

/*
fakeCodec issues "purpose|subject|unix-expiry" strings so tests control the
clock without a real signer.
*/

type fakeCodec struct{}

func (fakeCodec) Issue(subject string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	return fmt.Sprintf("%s|%s|%d", purpose, subject, time.Now().Add(ttl).Unix()), nil
}

func (fakeCodec) Subject(token string, expected TokenPurpose) (string, error) {
	parts := strings.SplitN(token, "|", 3)
	if len(parts) != 3 {
		return "", domain.ErrTokenInvalid()
	}
	var exp int64
	if _, err := fmt.Sscanf(parts[2], "%d", &exp); err != nil {
		return "", domain.ErrTokenInvalid()
	}
	if time.Now().Unix() >= exp {
		return "", domain.ErrTokenExpired()
	}
	if parts[1] == "" {
		return "", domain.ErrTokenMissingSubject()
	}
	if parts[0] != string(expected) {
		return "", domain.ErrTokenWrongType(string(expected))
	}
	return parts[1], nil
}

/*
fakePublisher records publishes and signals a channel so tests can wait for
the fire-and-forget dispatch goroutine.
*/

type fakePublisher struct {
	mu     sync.Mutex
	events []ConfirmationEmailEvent
	err    error

	ch chan ConfirmationEmailEvent
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{ch: make(chan ConfirmationEmailEvent, 8)}
}

func (f *fakePublisher) PublishConfirmationEmail(ctx context.Context, evt ConfirmationEmailEvent) error {
	f.mu.Lock()
	err := f.err
	if err == nil {
		f.events = append(f.events, evt)
	}
	f.mu.Unlock()

	select {
	case f.ch <- evt:
	default:
	}
	return err
}

// waitEvent blocks until a publish happened or the timeout elapsed.
func (f *fakePublisher) waitEvent(d time.Duration) (ConfirmationEmailEvent, bool) {
	select {
	case evt := <-f.ch:
		return evt, true
	case <-time.After(d):
		return ConfirmationEmailEvent{}, false
	}
}

func newTestService(users *fakeUserRepo, pub *fakePublisher) *Service {
	return NewService(users, fakeHasher{}, fakeCodec{}, pub, Config{
		AccessTTL:      5 * time.Minute,
		ConfirmTTL:     5 * time.Minute,
		ConfirmBaseURL: "http://localhost:8080/confirm?token=",
	}, zerolog.Nop())
}
