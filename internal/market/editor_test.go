package market_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/marketplace/internal/api/client"
	"github.com/donaldgifford/marketplace/internal/market"
	"github.com/donaldgifford/marketplace/internal/market/mocks"
	"github.com/donaldgifford/marketplace/internal/session"
	domain "github.com/donaldgifford/marketplace/pkg/types"
)

var dana = domain.Identity{ID: "dana@example.com", DisplayName: "Dana"}

func draft() domain.Draft {
	return domain.Draft{
		Title:       "Bike",
		Description: "Road bike",
		Location:    "Dizengoff St 50, Tel Aviv",
		City:        "Tel Aviv",
		PhoneNumber: "050",
	}
}

func signedIn(t *testing.T, who domain.Identity) *session.Manager {
	t.Helper()
	m := session.NewManager()
	require.NoError(t, m.SignIn(who))
	return m
}

type countingReloader struct{ n int }

func (c *countingReloader) Refresh(context.Context) error {
	c.n++
	return nil
}

func TestEditor_Add(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := mocks.NewMockRepository(t)
	reload := &countingReloader{}

	repo.EXPECT().Create(mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool {
		return l.Title == "Bike" && l.UserID == dana.ID && l.UserName == "Dana" &&
			l.Date == "2024-05-01T12:00:00.000Z" && l.ID != uuid.Nil
	})).Return(nil).Once()

	e := market.NewEditor(repo, signedIn(t, dana),
		market.WithBoard(reload),
		market.WithClock(func() time.Time { return now }),
	)

	got, err := e.Add(context.Background(), draft())
	require.NoError(t, err)
	assert.Equal(t, "Bike", got.Title)
	assert.Equal(t, 1, reload.n)
	assert.False(t, e.InProgress())
}

func TestEditor_AddTruncatesDescription(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockRepository(t)
	repo.EXPECT().Create(mock.Anything, mock.Anything).Return(nil).Once()

	d := draft()
	d.Description = strings.Repeat("x", 300)

	got, err := market.NewEditor(repo, signedIn(t, dana)).Add(context.Background(), d)
	require.NoError(t, err)
	assert.Len(t, got.Description, domain.MaxDescriptionLength)
}

func TestEditor_AddRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sess    session.Context
		draft   func() domain.Draft
		wantErr error
		wantMsg string
	}{
		{
			name:    "signed out",
			sess:    session.Anonymous,
			draft:   draft,
			wantErr: market.ErrSignedOut,
			wantMsg: market.MsgLogIn,
		},
		{
			name:    "nil session",
			sess:    nil,
			draft:   draft,
			wantErr: market.ErrSignedOut,
			wantMsg: market.MsgLogIn,
		},
		{
			name: "missing title",
			sess: signedIn(t, dana),
			draft: func() domain.Draft {
				d := draft()
				d.Title = " "
				return d
			},
			wantErr: domain.ErrTitleRequired,
			wantMsg: market.MsgMissingData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// No expectations: the repository must not be reached.
			repo := mocks.NewMockRepository(t)
			_, err := market.NewEditor(repo, tt.sess).Add(context.Background(), tt.draft())

			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, market.UserMessage(err))
		})
	}
}

func TestEditor_AddDuplicate(t *testing.T) {
	t.Parallel()

	dup := &client.ServerError{Code: 406, Description: "Item already exists"}
	repo := mocks.NewMockRepository(t)
	repo.EXPECT().Create(mock.Anything, mock.Anything).Return(dup).Once()
	reload := &countingReloader{}

	_, err := market.NewEditor(repo, signedIn(t, dana), market.WithBoard(reload)).Add(context.Background(), draft())

	require.Error(t, err)
	assert.True(t, client.IsDuplicate(err))
	assert.Equal(t, market.MsgAddFailed, market.UserMessage(err))
	assert.Zero(t, reload.n, "failed mutation must not refresh")

	var opErr *market.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "add", opErr.Op)
}

func TestEditor_Update(t *testing.T) {
	t.Parallel()

	existing := domain.NewListing(draft(), dana, time.Now())
	repo := mocks.NewMockRepository(t)
	repo.EXPECT().Update(mock.Anything, existing.ID, mock.MatchedBy(func(l *domain.Listing) bool {
		return l.ID == existing.ID && l.Date == existing.Date && l.City == "Haifa"
	})).Return(nil).Once()

	d := existing.Draft()
	d.City = "Haifa"

	got, err := market.NewEditor(repo, signedIn(t, dana)).Update(context.Background(), &existing, d)
	require.NoError(t, err)
	assert.Equal(t, "Haifa", got.City)
	assert.Equal(t, "Tel Aviv", existing.City)
}

func TestEditor_UpdateRejected(t *testing.T) {
	t.Parallel()

	existing := domain.NewListing(draft(), dana, time.Now())
	eli := domain.Identity{ID: "eli@example.com"}

	tests := []struct {
		name    string
		sess    session.Context
		wantErr error
		wantMsg string
	}{
		{name: "signed out", sess: session.Anonymous, wantErr: market.ErrSignedOut, wantMsg: market.MsgLogIn},
		{name: "not owner", sess: signedIn(t, eli), wantErr: market.ErrNotOwner, wantMsg: market.MsgGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := mocks.NewMockRepository(t)
			_, err := market.NewEditor(repo, tt.sess).Update(context.Background(), &existing, draft())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, market.UserMessage(err))
		})
	}
}

func TestEditor_UpdateServerFailure(t *testing.T) {
	t.Parallel()

	existing := domain.NewListing(draft(), dana, time.Now())
	repo := mocks.NewMockRepository(t)
	repo.EXPECT().Update(mock.Anything, existing.ID, mock.Anything).
		Return(&client.ServerError{Code: 404, Description: "Item not found"}).Once()

	_, err := market.NewEditor(repo, signedIn(t, dana)).Update(context.Background(), &existing, draft())
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Equal(t, market.MsgUpdateFailed, market.UserMessage(err))
}

func TestEditor_Remove(t *testing.T) {
	t.Parallel()

	existing := domain.NewListing(draft(), dana, time.Now())
	repo := mocks.NewMockRepository(t)
	repo.EXPECT().Remove(mock.Anything, existing.ID).Return(nil).Once()
	reload := &countingReloader{}

	err := market.NewEditor(repo, signedIn(t, dana), market.WithBoard(reload)).Remove(context.Background(), &existing)
	require.NoError(t, err)
	assert.Equal(t, 1, reload.n)
}

func TestEditor_RemoveFailures(t *testing.T) {
	t.Parallel()

	existing := domain.NewListing(draft(), dana, time.Now())

	repo := mocks.NewMockRepository(t)
	err := market.NewEditor(repo, signedIn(t, domain.Identity{ID: "eli@example.com"})).Remove(context.Background(), &existing)
	require.ErrorIs(t, err, market.ErrNotOwner)

	repo = mocks.NewMockRepository(t)
	repo.EXPECT().Remove(mock.Anything, existing.ID).Return(client.ErrUnreachable).Once()
	err = market.NewEditor(repo, signedIn(t, dana)).Remove(context.Background(), &existing)
	require.ErrorIs(t, err, client.ErrUnreachable)
	assert.Equal(t, market.MsgGeneric, market.UserMessage(err))
}

func TestEditor_InProgressLatch(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})

	repo := mocks.NewMockRepository(t)
	repo.EXPECT().Create(mock.Anything, mock.Anything).RunAndReturn(func(context.Context, *domain.Listing) error {
		close(entered)
		<-release
		return nil
	}).Once()

	e := market.NewEditor(repo, signedIn(t, dana))

	done := make(chan error, 1)
	go func() {
		_, err := e.Add(context.Background(), draft())
		done <- err
	}()

	<-entered
	assert.True(t, e.InProgress())

	_, err := e.Add(context.Background(), draft())
	require.ErrorIs(t, err, market.ErrInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, e.InProgress())
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, market.UserMessage(nil))
	assert.Equal(t, market.MsgGeneric, market.UserMessage(errors.New("plain")))
	assert.Equal(t, "x", market.UserMessage(&market.OpError{Op: "add", Message: "x", Err: errors.New("y")}))
}
