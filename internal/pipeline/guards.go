package pipeline

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sakif/catalog-service/internal/apperror"
	"github.com/sakif/catalog-service/internal/auth"
	"github.com/sakif/catalog-service/internal/repository"
	"github.com/sakif/catalog-service/internal/validation"
)

// Authenticate requires a bearer token and binds the caller's user ID.
//
// A missing Authorization header, or one that isn't exactly
// "Bearer <token>", fails with LackingAccessToken (401). Token content
// problems are the token service's call: expired tokens come back as
// ExpiredAccessToken (401), tampered or malformed ones as
// InvalidAccessToken (400).
func Authenticate(tokens *auth.TokenService) Guard {
	return func(r *http.Request, rc *Context) error {
		parts := strings.Fields(r.Header.Get("Authorization"))
		if len(parts) != 2 || parts[0] != "Bearer" {
			return apperror.LackingAccessToken()
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			return err
		}

		rc.UserID = userID
		return nil
	}
}

// ResolveCategory looks up the category named by the {category_id} path
// segment and binds it. Absence fails with CategoryNotFound.
func ResolveCategory(categories repository.CategoryRepository) Guard {
	return func(r *http.Request, rc *Context) error {
		category, err := categories.GetByID(r.Context(), r.PathValue("category_id"))
		if err != nil {
			return err
		}

		rc.Category = category
		return nil
	}
}

// ValidateInput runs the endpoint's schema against the request input and
// binds the loaded values. Mutating verbs validate the JSON body; reads
// validate the query string.
//
// A body that is not a JSON object at all fails with the generic
// BadRequest (no field map). Rule violations fail with ValidationFailed
// carrying the aggregated field→message data.
func ValidateInput(schema *validation.Schema) Guard {
	return func(r *http.Request, rc *Context) error {
		var (
			values validation.Values
			err    error
		)

		switch r.Method {
		case http.MethodPost, http.MethodPut:
			var raw map[string]any
			if decodeErr := json.NewDecoder(r.Body).Decode(&raw); decodeErr != nil {
				return apperror.BadRequest("")
			}
			values, err = schema.Load(raw)
		default:
			values, err = schema.LoadQuery(r.URL.Query())
		}

		if err != nil {
			return err
		}

		rc.Input = values
		return nil
	}
}

// ResolveItem looks up the item named by the {item_id} path segment,
// scoped to the category bound earlier in the chain, and binds it.
//
// Two conditions collapse into the same ItemNotFound error on purpose: the
// item not existing at all, and the item existing under a different
// category. Distinguishing them would let a caller probe whether an item
// ID exists somewhere else in the catalog.
//
// Must run after ResolveCategory; the chain order guarantees rc.Category
// is bound here.
func ResolveItem(items repository.ItemRepository) Guard {
	return func(r *http.Request, rc *Context) error {
		item, err := items.GetByID(r.Context(), r.PathValue("item_id"))
		if err != nil {
			return err
		}
		if item.CategoryID != rc.Category.ID {
			return apperror.ItemNotFound()
		}

		rc.Item = item
		return nil
	}
}

// CheckOwnership compares the resolved category's owner against the
// authenticated caller. Items are owned transitively through their parent
// category, so this single guard covers both resource types. It never runs
// before resolution: the chain order places it after the resolve guards.
func CheckOwnership() Guard {
	return func(_ *http.Request, rc *Context) error {
		if rc.Category.UserID != rc.UserID {
			return apperror.ForbiddenNotOwner()
		}
		return nil
	}
}
