package validation

// Shared field constraints. Every user-supplied string in the API is capped
// at 256 characters and must be non-blank after trimming.
const (
	minFieldLength = 1
	maxFieldLength = 256

	// DefaultPage and DefaultPerPage fill absent pagination parameters.
	DefaultPage    = 1
	DefaultPerPage = 20

	// MaxPerPage is a hard cap: asking for more than this per page is a
	// validation error, not a clamp.
	MaxPerPage = 20
)

var (
	minPerPage = 1
	maxPerPage = MaxPerPage
)

// Pagination validates the page/per_page query parameters on list
// endpoints. Both are optional with defaults; per_page outside [1,20]
// fails outright.
var Pagination = &Schema{
	Fields: []Field{
		{Name: "page", Kind: Int, Default: DefaultPage},
		{Name: "per_page", Kind: Int, Default: DefaultPerPage, Min: &minPerPage, Max: &maxPerPage},
	},
}

// Category validates the body of POST /categories.
var Category = &Schema{
	Fields: []Field{
		{Name: "name", Required: true, MinLen: minFieldLength, MaxLen: maxFieldLength},
	},
}

// Item validates the body of POST /categories/{id}/items.
var Item = &Schema{
	Fields: []Field{
		{Name: "name", Required: true, MinLen: minFieldLength, MaxLen: maxFieldLength},
		{Name: "description", Required: true, MinLen: minFieldLength, MaxLen: maxFieldLength},
	},
}

// ItemUpdate validates the body of PUT on an item. Both fields are
// optional, but an update carrying neither is rejected.
var ItemUpdate = &Schema{
	Fields: []Field{
		{Name: "name", MinLen: minFieldLength, MaxLen: maxFieldLength},
		{Name: "description", MinLen: minFieldLength, MaxLen: maxFieldLength},
	},
	AtLeastOneOf: []string{"name", "description"},
}

// Signup validates the body of POST /users/signup. Password strength is
// only enforced when the password is first chosen.
var Signup = &Schema{
	Fields: []Field{
		{Name: "email", Required: true, MinLen: minFieldLength, MaxLen: maxFieldLength, Email: true},
		{Name: "password", Required: true, MinLen: minFieldLength, MaxLen: maxFieldLength, Password: true},
	},
}

// Login validates the body of POST /users/auth. No strength rule here:
// whatever the stored password is, the comparison decides.
var Login = &Schema{
	Fields: []Field{
		{Name: "email", Required: true, MinLen: minFieldLength, MaxLen: maxFieldLength, Email: true},
		{Name: "password", Required: true, MinLen: minFieldLength, MaxLen: maxFieldLength},
	},
}
