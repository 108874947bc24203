package admin

import (
	"context"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/rshop/shopbot/catalog"
	"github.com/rshop/shopbot/telegram/state"
)

// fakeContext is the minimal tele.Context surface the text flows touch.
// Unimplemented methods panic via the embedded nil interface.
type fakeContext struct {
	tele.Context
	sender *tele.User
	text   string
	values map[string]interface{}
	sent   []string
}

func newFakeContext(userID int64, text string) *fakeContext {
	return &fakeContext{
		sender: &tele.User{ID: userID},
		text:   text,
		values: make(map[string]interface{}),
	}
}

func (f *fakeContext) Sender() *tele.User { return f.sender }

func (f *fakeContext) Chat() *tele.Chat { return nil }

func (f *fakeContext) Update() tele.Update { return tele.Update{ID: 1} }

func (f *fakeContext) Callback() *tele.Callback { return nil }

func (f *fakeContext) Text() string { return f.text }

func (f *fakeContext) Message() *tele.Message { return &tele.Message{Text: f.text} }

func (f *fakeContext) Set(key string, v interface{}) { f.values[key] = v }

func (f *fakeContext) Get(key string) interface{} { return f.values[key] }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	return nil
}

func (f *fakeContext) Respond(_ ...*tele.CallbackResponse) error { return nil }

// stubStore overrides only the methods a test exercises.
type stubStore struct {
	Store
	findBrand      func(ctx context.Context, name string) (catalog.Brand, error)
	createBrand    func(ctx context.Context, name string) (catalog.Brand, error)
	brandByID      func(ctx context.Context, id int64) (catalog.Brand, error)
	findCategory   func(ctx context.Context, brandID int64, name string) (catalog.Category, error)
	createCategory func(ctx context.Context, brandID int64, name string) (catalog.Category, error)
}

func (s *stubStore) FindBrand(ctx context.Context, name string) (catalog.Brand, error) {
	return s.findBrand(ctx, name)
}

func (s *stubStore) CreateBrand(ctx context.Context, name string) (catalog.Brand, error) {
	return s.createBrand(ctx, name)
}

func (s *stubStore) BrandByID(ctx context.Context, id int64) (catalog.Brand, error) {
	return s.brandByID(ctx, id)
}

func (s *stubStore) FindCategory(ctx context.Context, brandID int64, name string) (catalog.Category, error) {
	return s.findCategory(ctx, brandID, name)
}

func (s *stubStore) CreateCategory(ctx context.Context, brandID int64, name string) (catalog.Category, error) {
	return s.createCategory(ctx, brandID, name)
}

func TestBrandAddNameRejectsExistingName(t *testing.T) {
	const userID int64 = 42
	store := &stubStore{
		findBrand: func(_ context.Context, name string) (catalog.Brand, error) {
			return catalog.Brand{ID: 1, Name: name}, nil
		},
		createBrand: func(_ context.Context, _ string) (catalog.Brand, error) {
			t.Fatal("CreateBrand called despite the name being taken")
			return catalog.Brand{}, nil
		},
	}
	h := NewHandler(store, state.NewMemoryManager(), nil)
	h.fsm.SetState(userID, stateBrandAddName)

	c := newFakeContext(userID, "Acme")
	if err := h.BrandAddName(c); err != nil {
		t.Fatalf("BrandAddName: %v", err)
	}

	if len(c.sent) != 1 || !strings.Contains(c.sent[0], "already exists") {
		t.Fatalf("expected duplicate re-prompt, got %q", c.sent)
	}
	if h.fsm.GetState(userID) != stateBrandAddName {
		t.Fatal("duplicate name must keep the operator on the same step")
	}
}

func TestBrandAddNameEscapesMarkdownInConfirmation(t *testing.T) {
	const userID int64 = 42
	store := &stubStore{
		findBrand: func(_ context.Context, _ string) (catalog.Brand, error) {
			return catalog.Brand{}, catalog.ErrNotFound
		},
		createBrand: func(_ context.Context, name string) (catalog.Brand, error) {
			return catalog.Brand{ID: 7, Name: name}, nil
		},
	}
	h := NewHandler(store, state.NewMemoryManager(), nil)
	h.fsm.SetState(userID, stateBrandAddName)

	c := newFakeContext(userID, "foo_bar")
	if err := h.BrandAddName(c); err != nil {
		t.Fatalf("BrandAddName: %v", err)
	}

	if len(c.sent) == 0 {
		t.Fatal("no confirmation sent")
	}
	confirm := c.sent[0]
	if !strings.Contains(confirm, `foo\_bar`) {
		t.Fatalf("name not escaped for Markdown: %q", confirm)
	}
	if h.fsm.InProgress(userID) {
		t.Fatal("session must be cleared after a successful add")
	}
}

func TestCategoryAddNameRejectsExistingName(t *testing.T) {
	const userID int64 = 42
	store := &stubStore{
		brandByID: func(_ context.Context, id int64) (catalog.Brand, error) {
			return catalog.Brand{ID: id, Name: "Acme"}, nil
		},
		findCategory: func(_ context.Context, brandID int64, name string) (catalog.Category, error) {
			return catalog.Category{ID: 3, Name: name, BrandID: brandID}, nil
		},
		createCategory: func(_ context.Context, _ int64, _ string) (catalog.Category, error) {
			t.Fatal("CreateCategory called despite the name being taken")
			return catalog.Category{}, nil
		},
	}
	h := NewHandler(store, state.NewMemoryManager(), nil)
	h.fsm.SetTemp(userID, tempBrandID, int64(1))
	h.fsm.SetState(userID, stateCategoryAddName)

	c := newFakeContext(userID, "Shoes")
	if err := h.CategoryAddName(c); err != nil {
		t.Fatalf("CategoryAddName: %v", err)
	}

	if len(c.sent) != 1 || !strings.Contains(c.sent[0], "already has a category") {
		t.Fatalf("expected duplicate re-prompt, got %q", c.sent)
	}
	if h.fsm.GetState(userID) != stateCategoryAddName {
		t.Fatal("duplicate name must keep the operator on the same step")
	}
}
