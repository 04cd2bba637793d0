package handler

import (
	"testing"

	"github.com/deppfellow/todo-api/internal/validation"
	"github.com/pkg/errors"
)

func intPtr(v int) *int { return &v }

func TestValidatePriority(t *testing.T) {
	tests := []struct {
		name     string
		priority *int
		ok       bool
	}{
		{"omitted", nil, true},
		{"low", intPtr(1), true},
		{"medium", intPtr(2), true},
		{"high", intPtr(3), true},
		{"zero", intPtr(0), false},
		{"four", intPtr(4), false},
		{"negative", intPtr(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePriority(tt.priority)
			if tt.ok {
				if err != nil {
					t.Fatalf("validatePriority(%v) = %v, want nil", tt.priority, err)
				}
				return
			}
			var fieldErrs validation.CustomValidationErrors
			if !errors.As(err, &fieldErrs) {
				t.Fatalf("validatePriority(%v) = %v, want CustomValidationErrors", tt.priority, err)
			}
			if len(fieldErrs) != 1 || fieldErrs[0].Field != "priority" {
				t.Fatalf("field errors = %+v, want one error on priority", fieldErrs)
			}
			if fieldErrs[0].Message != "must be 1 (Low), 2 (Medium), or 3 (High)" {
				t.Errorf("message = %q", fieldErrs[0].Message)
			}
		})
	}
}

func TestCreateItemRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  CreateItemRequest
		ok   bool
	}{
		{"title only", CreateItemRequest{Title: "Buy milk"}, true},
		{"all fields", CreateItemRequest{Title: "Buy milk", Completed: true, Priority: intPtr(3)}, true},
		{"missing title", CreateItemRequest{}, false},
		{"bad priority", CreateItemRequest{Title: "Buy milk", Priority: intPtr(9)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestListItemsRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  ListItemsRequest
		ok   bool
	}{
		{"defaults", ListItemsRequest{}, true},
		{"sort by title desc", ListItemsRequest{SortBy: "title", SortOrder: "desc"}, true},
		{"sort by priority", ListItemsRequest{SortBy: "priority"}, true},
		{"unknown column", ListItemsRequest{SortBy: "created_at"}, false},
		{"unknown order", ListItemsRequest{SortOrder: "sideways"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
