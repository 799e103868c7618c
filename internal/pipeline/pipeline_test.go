package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sakif/catalog-service/internal/apperror"
	"github.com/sakif/catalog-service/internal/auth"
	"github.com/sakif/catalog-service/internal/model"
	"github.com/sakif/catalog-service/internal/repository"
	"github.com/sakif/catalog-service/internal/validation"
)

const testSecret = "pipeline-test-secret"

// mockCategoryRepo serves GetByID from a fixed map. The other interface
// methods are never reached by guards.
type mockCategoryRepo struct {
	categories map[string]*model.Category
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (*model.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, apperror.CategoryNotFound()
	}
	return category, nil
}

func (m *mockCategoryRepo) Create(context.Context, *model.Category) error { return nil }
func (m *mockCategoryRepo) GetByName(context.Context, string) (*model.Category, error) {
	return nil, apperror.CategoryNotFound()
}
func (m *mockCategoryRepo) List(context.Context, repository.ListOptions) ([]model.Category, error) {
	return nil, nil
}
func (m *mockCategoryRepo) Count(context.Context) (int, error) { return 0, nil }
func (m *mockCategoryRepo) DeleteCascade(context.Context, string) error { return nil }

type mockItemRepo struct {
	items map[string]*model.Item
}

func (m *mockItemRepo) GetByID(_ context.Context, id string) (*model.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, apperror.ItemNotFound()
	}
	return item, nil
}

func (m *mockItemRepo) Create(context.Context, *model.Item) error { return nil }
func (m *mockItemRepo) GetByName(context.Context, string) (*model.Item, error) {
	return nil, apperror.ItemNotFound()
}
func (m *mockItemRepo) ListByCategory(context.Context, string, repository.ListOptions) ([]model.Item, error) {
	return nil, nil
}
func (m *mockItemRepo) CountByCategory(context.Context, string) (int, error) { return 0, nil }
func (m *mockItemRepo) Update(context.Context, *model.Item) error { return nil }
func (m *mockItemRepo) Delete(context.Context, string) error { return nil }

var (
	_ repository.CategoryRepository = (*mockCategoryRepo)(nil)
	_ repository.ItemRepository     = (*mockItemRepo)(nil)
)

func assertCode(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error is not an AppError: %v", err)
	}
	if appErr.Code != code {
		t.Errorf("Code = %d, want %d", appErr.Code, code)
	}
}

func TestChain_RunsGuardsInOrder(t *testing.T) {
	var trace []string
	record := func(name string) Guard {
		return func(_ *http.Request, _ *Context) error {
			trace = append(trace, name)
			return nil
		}
	}

	chain := NewChain(func(_ *http.Request, _ *Context) (any, error) {
		trace = append(trace, "handler")
		return "done", nil
	}, record("first"), record("second"), record("third"))

	result, err := chain.Run(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result != "done" {
		t.Errorf("result = %v, want %q", result, "done")
	}

	want := []string{"first", "second", "third", "handler"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestChain_ShortCircuitsOnFirstError(t *testing.T) {
	boom := apperror.ForbiddenNotOwner()
	var laterRan, handlerRan bool

	chain := NewChain(func(_ *http.Request, _ *Context) (any, error) {
		handlerRan = true
		return nil, nil
	},
		func(_ *http.Request, _ *Context) error { return boom },
		func(_ *http.Request, _ *Context) error { laterRan = true; return nil },
	)

	_, err := chain.Run(httptest.NewRequest(http.MethodGet, "/", nil))
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("Run() error = %v, want the guard error", err)
	}
	if laterRan {
		t.Error("guard after the failing one should not run")
	}
	if handlerRan {
		t.Error("handler should not run after a guard failure")
	}
}

func TestAuthenticate(t *testing.T) {
	tokens, err := auth.NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	token, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	guard := Authenticate(tokens)

	t.Run("valid token binds user", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		rc := &Context{}
		if err := guard(r, rc); err != nil {
			t.Fatalf("guard error = %v", err)
		}
		if rc.UserID != "user-1" {
			t.Errorf("UserID = %q, want %q", rc.UserID, "user-1")
		}
	})

	headerCases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no scheme", token},
		{"wrong scheme", "Basic " + token},
		{"scheme only", "Bearer"},
		{"extra parts", "Bearer " + token + " trailing"},
	}
	for _, tt := range headerCases {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assertCode(t, guard(r, &Context{}), apperror.CodeLackingAccessToken)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		expired, err := tokens.IssueWithDuration("user-1", -time.Minute)
		if err != nil {
			t.Fatalf("IssueWithDuration() error = %v", err)
		}
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+expired)
		assertCode(t, guard(r, &Context{}), apperror.CodeExpiredAccessToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer not.a.token")
		assertCode(t, guard(r, &Context{}), apperror.CodeInvalidAccessToken)
	})
}

func TestResolveCategory(t *testing.T) {
	owned := &model.Category{ID: "cat-1", Name: "Books", UserID: "user-1"}
	repo := &mockCategoryRepo{categories: map[string]*model.Category{"cat-1": owned}}
	guard := ResolveCategory(repo)

	t.Run("found", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/categories/cat-1", nil)
		r.SetPathValue("category_id", "cat-1")

		rc := &Context{}
		if err := guard(r, rc); err != nil {
			t.Fatalf("guard error = %v", err)
		}
		if rc.Category != owned {
			t.Error("resolved category not bound on context")
		}
	})

	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/categories/ghost", nil)
		r.SetPathValue("category_id", "ghost")
		assertCode(t, guard(r, &Context{}), apperror.CodeCategoryNotFound)
	})
}

func TestResolveItem(t *testing.T) {
	category := &model.Category{ID: "cat-1", Name: "Books", UserID: "user-1"}
	inside := &model.Item{ID: "item-1", Name: "Dune", CategoryID: "cat-1"}
	elsewhere := &model.Item{ID: "item-2", Name: "Stray", CategoryID: "cat-other"}
	repo := &mockItemRepo{items: map[string]*model.Item{
		"item-1": inside,
		"item-2": elsewhere,
	}}
	guard := ResolveItem(repo)

	t.Run("found under category", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.SetPathValue("item_id", "item-1")

		rc := &Context{Category: category}
		if err := guard(r, rc); err != nil {
			t.Fatalf("guard error = %v", err)
		}
		if rc.Item != inside {
			t.Error("resolved item not bound on context")
		}
	})

	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.SetPathValue("item_id", "ghost")
		assertCode(t, guard(r, &Context{Category: category}), apperror.CodeItemNotFound)
	})

	// An item under a different category must be indistinguishable from a
	// nonexistent one.
	t.Run("wrong parent category", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.SetPathValue("item_id", "item-2")
		assertCode(t, guard(r, &Context{Category: category}), apperror.CodeItemNotFound)
	})
}

func TestCheckOwnership(t *testing.T) {
	guard := CheckOwnership()
	category := &model.Category{ID: "cat-1", UserID: "user-1"}

	t.Run("owner passes", func(t *testing.T) {
		rc := &Context{UserID: "user-1", Category: category}
		if err := guard(nil, rc); err != nil {
			t.Errorf("guard error = %v", err)
		}
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		rc := &Context{UserID: "user-2", Category: category}
		assertCode(t, guard(nil, rc), apperror.CodeForbiddenNotOwner)
	})
}

func TestValidateInput(t *testing.T) {
	guard := ValidateInput(validation.Category)

	t.Run("valid body binds values", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":" Books "}`))

		rc := &Context{}
		if err := guard(r, rc); err != nil {
			t.Fatalf("guard error = %v", err)
		}
		if got := rc.Input.String("name"); got != "Books" {
			t.Errorf("name = %q, want %q", got, "Books")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader("{not json"))
		assertCode(t, guard(r, &Context{}), apperror.CodeBadRequest)
	})

	t.Run("rule violation", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{}`))
		assertCode(t, guard(r, &Context{}), apperror.CodeValidationError)
	})

	t.Run("query parameters on reads", func(t *testing.T) {
		guard := ValidateInput(validation.Pagination)
		r := httptest.NewRequest(http.MethodGet, "/categories?page=2&per_page=5", nil)

		rc := &Context{}
		if err := guard(r, rc); err != nil {
			t.Fatalf("guard error = %v", err)
		}
		if rc.Input.Int("page") != 2 || rc.Input.Int("per_page") != 5 {
			t.Errorf("got page=%d per_page=%d", rc.Input.Int("page"), rc.Input.Int("per_page"))
		}
	})
}
