package errs

import (
	"errors"
	"net/http"
	"testing"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Not Found", "NOT_FOUND"},
		{"Unprocessable Entity", "UNPROCESSABLE_ENTITY"},
		{"Internal Server Error", "INTERNAL_SERVER_ERROR"},
		{"ok", "OK"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := MakeUpperCaseWithUnderscores(tt.in); got != tt.want {
				t.Errorf("MakeUpperCaseWithUnderscores(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	customCode := "ITEM_ALREADY_EXISTS"

	tests := []struct {
		name       string
		err        *HTTPError
		wantStatus int
		wantCode   string
	}{
		{
			name:       "bad request default code",
			err:        NewBadRequestError("nope", false, nil, nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "bad request custom code",
			err:        NewBadRequestError("exists", true, &customCode, nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   "ITEM_ALREADY_EXISTS",
		},
		{
			name:       "unprocessable entity",
			err:        NewUnprocessableEntityError("bad payload", true, nil, nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "UNPROCESSABLE_ENTITY",
		},
		{
			name:       "not found",
			err:        NewNotFoundError("Item not found", true, nil),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "internal server error",
			err:        NewInternalServerError(),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.wantStatus)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
		})
	}
}

func TestErrorReturnsMessage(t *testing.T) {
	err := NewNotFoundError("Item not found", false, nil)
	if err.Error() != "Item not found" {
		t.Errorf("Error() = %q, want %q", err.Error(), "Item not found")
	}
}

func TestFieldErrorsCarried(t *testing.T) {
	fieldErrors := []FieldError{{Field: "title", Error: "is required"}}
	err := NewUnprocessableEntityError("Validation failed", true, nil, fieldErrors)

	if len(err.Errors) != 1 || err.Errors[0].Field != "title" {
		t.Errorf("Errors = %+v, want the title field error", err.Errors)
	}
}

func TestIsMatchesType(t *testing.T) {
	notFound := NewNotFoundError("gone", false, nil)
	badRequest := NewBadRequestError("nope", false, nil, nil)

	// Is matches on type, not on contents.
	if !errors.Is(notFound, badRequest) {
		t.Error("errors.Is(*HTTPError, *HTTPError) = false, want true")
	}
	if errors.Is(notFound, errors.New("plain")) {
		t.Error("errors.Is(*HTTPError, plain error) = true, want false")
	}
}

func TestAsFindsHTTPError(t *testing.T) {
	var httpErr *HTTPError
	err := error(NewNotFoundError("gone", false, nil))

	if !errors.As(err, &httpErr) {
		t.Fatal("errors.As failed to find *HTTPError")
	}
	if httpErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", httpErr.Status)
	}
}

func TestWithMessageCopies(t *testing.T) {
	base := NewBadRequestError("original", true, nil, []FieldError{{Field: "f", Error: "e"}})
	derived := base.WithMessage("changed")

	if derived.Message != "changed" {
		t.Errorf("derived message = %q, want %q", derived.Message, "changed")
	}
	if base.Message != "original" {
		t.Errorf("base message mutated to %q", base.Message)
	}
	if derived.Status != base.Status || derived.Code != base.Code || derived.Override != base.Override {
		t.Error("derived error does not preserve the other fields")
	}
	if len(derived.Errors) != 1 {
		t.Error("derived error does not carry the field errors")
	}
}

func TestValidationError(t *testing.T) {
	err := ValidationError(errors.New("title too long"))

	if err.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", err.Status)
	}
	if want := "Validation failed: title too long"; err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
}
