package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	connector "productposts/internal/connectors/diffbot"
	"productposts/internal/logger"
	"productposts/internal/models"
	"productposts/internal/repository"
)

type memSettings map[string]string

func (m memSettings) GetValue(ctx context.Context, key string) (string, error) {
	return m[key], nil
}

type memPosts struct {
	posts   map[string]*models.Post
	seq     int
	failKey string
}

func newMemPosts() *memPosts {
	return &memPosts{posts: map[string]*models.Post{}}
}

func (m *memPosts) Create(ctx context.Context, post *models.Post) error {
	m.seq++
	post.ID = fmt.Sprintf("post-%d", m.seq)
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *memPosts) AddMeta(ctx context.Context, postID, key, value string) error {
	if key == m.failKey {
		return errors.New("disk full")
	}
	p, ok := m.posts[postID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Meta = append(p.Meta, models.PostMeta{PostID: postID, Key: key, Value: value})
	return nil
}

func (m *memPosts) Get(ctx context.Context, id string) (*models.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (m *memPosts) List(ctx context.Context, f repository.ListFilter) ([]models.Post, int64, error) {
	var out []models.Post
	for _, p := range m.posts {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *memPosts) Delete(ctx context.Context, id string) error {
	delete(m.posts, id)
	return nil
}

func (m *memPosts) Transaction(ctx context.Context, fn func(tx repository.PostRepository) error) error {
	snapshot := map[string]*models.Post{}
	for k, v := range m.posts {
		cp := *v
		cp.Meta = append([]models.PostMeta(nil), v.Meta...)
		snapshot[k] = &cp
	}
	if err := fn(m); err != nil {
		m.posts = snapshot
		return err
	}
	return nil
}

type stubFetcher struct {
	record models.ProductRecord
	err    error
	calls  []string
}

func (s *stubFetcher) Product(ctx context.Context, pageURL string) (models.ProductRecord, error) {
	s.calls = append(s.calls, pageURL)
	return s.record, s.err
}

type factorySpy struct {
	fetcher *stubFetcher
	err     error
	tokens  []string
}

func (f *factorySpy) build(token string) (ProductFetcher, error) {
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return nil, f.err
	}
	return f.fetcher, nil
}

type notifierSpy struct {
	postIDs []string
	err     error
}

func (n *notifierSpy) ProductImported(ctx context.Context, postID, pageURL string) error {
	n.postIDs = append(n.postIDs, postID)
	return n.err
}

var widget = models.ProductRecord{
	Title:        "Widget",
	Text:         "A widget.",
	RegularPrice: "19.99",
	OfferPrice:   "14.99",
	SourceURL:    "https://example.com/widget",
}

func newTestImporter(settings memSettings, posts *memPosts, factory *factorySpy, opts ...Option) *Importer {
	return New(settings, posts, factory.build, logger.Nop(), opts...)
}

func TestRun_EmptyURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		factory := &factorySpy{fetcher: &stubFetcher{record: widget}}
		posts := newMemPosts()

		res := newTestImporter(memSettings{models.SettingAPIKey: "good-token"}, posts, factory).Run(context.Background(), raw)

		assert.Equal(t, StateError, res.State)
		assert.Equal(t, StateAwaitingInput, res.FailedAt)
		assert.Equal(t, StatusNoURL, res.Status)
		assert.Empty(t, factory.tokens, "no connector may be built")
		assert.Empty(t, posts.posts)
	}
}

func TestRun_BadURL(t *testing.T) {
	for _, raw := range []string{"not a url", "example.com/widget", "ftp://example.com/file", "https://"} {
		factory := &factorySpy{fetcher: &stubFetcher{record: widget}}
		posts := newMemPosts()

		res := newTestImporter(memSettings{models.SettingAPIKey: "good-token"}, posts, factory).Run(context.Background(), raw)

		assert.Equal(t, StatusBadURL, res.Status, raw)
		assert.Empty(t, factory.tokens, raw)
		assert.Empty(t, factory.fetcher.calls, raw)
		assert.Empty(t, posts.posts, raw)
	}
}

func TestRun_ScenarioA(t *testing.T) {
	fetcher := &stubFetcher{record: widget}
	factory := &factorySpy{fetcher: fetcher}
	posts := newMemPosts()
	notifier := &notifierSpy{}

	res := newTestImporter(memSettings{models.SettingAPIKey: "good-token"}, posts, factory, WithNotifier(notifier)).
		Run(context.Background(), " https://example.com/widget ")

	require.True(t, res.OK(), "result: %+v", res)
	assert.Equal(t, StatusCreatePostSuccessful, res.Status)
	assert.Equal(t, "https://example.com/widget", res.URL)
	assert.Equal(t, []string{"good-token"}, factory.tokens)
	assert.Equal(t, []string{"https://example.com/widget"}, fetcher.calls)

	post, err := posts.Get(context.Background(), res.PostID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", post.Title)
	assert.Equal(t, "A widget.", post.Content)
	assert.Equal(t, models.PostTypeProduct, post.Type)
	assert.Equal(t, map[string]string{
		models.MetaRegularPrice: "19.99",
		models.MetaOfferPrice:   "14.99",
		models.MetaSourceURL:    "https://example.com/widget",
	}, post.MetaMap())
	assert.Equal(t, []string{res.PostID}, notifier.postIDs)
}

func TestRun_ScenarioC_ConstructionFails(t *testing.T) {
	factory := &factorySpy{err: connector.ErrInvalidCredential}
	posts := newMemPosts()

	res := newTestImporter(memSettings{models.SettingAPIKey: "bad"}, posts, factory).Run(context.Background(), "https://example.com/widget")

	assert.Equal(t, StatusBadKey, res.Status)
	assert.Equal(t, StateValidating, res.FailedAt)
	assert.ErrorIs(t, res.Err, connector.ErrInvalidCredential)
	assert.Empty(t, posts.posts)
}

func TestRun_ProductionFactoryRejectsShortKey(t *testing.T) {
	posts := newMemPosts()
	imp := New(memSettings{models.SettingAPIKey: "bad"}, posts, DiffbotConnectors(), logger.Nop())

	res := imp.Run(context.Background(), "https://example.com/widget")

	assert.Equal(t, StatusBadKey, res.Status)
	assert.ErrorIs(t, res.Err, connector.ErrInvalidCredential)
	assert.Empty(t, posts.posts)
}

func TestRun_MissingCredential(t *testing.T) {
	factory := &factorySpy{fetcher: &stubFetcher{record: widget}}

	res := newTestImporter(memSettings{}, newMemPosts(), factory).Run(context.Background(), "https://example.com/widget")

	assert.Equal(t, StatusBadKey, res.Status)
	assert.ErrorIs(t, res.Err, ErrNoCredential)
	assert.Empty(t, factory.tokens)
}

func TestRun_FetchFails(t *testing.T) {
	upstream := &connector.UpstreamError{URL: "https://example.com/widget", Err: connector.ErrNoResults}
	factory := &factorySpy{fetcher: &stubFetcher{err: upstream}}
	posts := newMemPosts()

	res := newTestImporter(memSettings{models.SettingAPIKey: "good-token"}, posts, factory).Run(context.Background(), "https://example.com/widget")

	assert.Equal(t, StatusBadKey, res.Status)
	assert.Equal(t, StateCalling, res.FailedAt)
	assert.ErrorIs(t, res.Err, connector.ErrNoResults)
	assert.Empty(t, posts.posts)
}

func TestRun_MetaWriteFailureRollsBack(t *testing.T) {
	factory := &factorySpy{fetcher: &stubFetcher{record: widget}}
	posts := newMemPosts()
	posts.failKey = models.MetaOfferPrice
	notifier := &notifierSpy{}

	res := newTestImporter(memSettings{models.SettingAPIKey: "good-token"}, posts, factory, WithNotifier(notifier)).
		Run(context.Background(), "https://example.com/widget")

	assert.Equal(t, StatusCreatePostFailed, res.Status)
	assert.Equal(t, StatePersisting, res.FailedAt)
	assert.Empty(t, res.PostID)
	assert.Empty(t, posts.posts, "partial post must be rolled back")
	assert.Empty(t, notifier.postIDs)
}

func TestRun_NotifierFailureIsNotFatal(t *testing.T) {
	factory := &factorySpy{fetcher: &stubFetcher{record: widget}}
	notifier := &notifierSpy{err: errors.New("broker down")}

	res := newTestImporter(memSettings{models.SettingAPIKey: "good-token"}, newMemPosts(), factory, WithNotifier(notifier)).
		Run(context.Background(), "https://example.com/widget")

	assert.True(t, res.OK())
	assert.Len(t, notifier.postIDs, 1)
}

func TestStatusCatalog(t *testing.T) {
	for _, s := range []Status{StatusNoURL, StatusBadURL, StatusInvalidKey, StatusBadKey, StatusNoPrivs, StatusCreatePostFailed, StatusCreatePostSuccessful} {
		assert.NotEmpty(t, Message(s), s)
		parsed, ok := ParseStatus(string(s))
		assert.True(t, ok)
		assert.Equal(t, s, parsed)
	}
	_, ok := ParseStatus("bogus")
	assert.False(t, ok)
	assert.Equal(t, "updated", Notice(StatusCreatePostSuccessful))
	assert.Equal(t, "error", Notice(StatusBadURL))
}
