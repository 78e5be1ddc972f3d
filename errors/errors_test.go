package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotInitialized, "not initialized")
	if err.Code != ErrCodeNotInitialized {
		t.Errorf("expected code %s, got %s", ErrCodeNotInitialized, err.Code)
	}
	if err.Message != "not initialized" {
		t.Errorf("expected message 'not initialized', got %q", err.Message)
	}
}

func TestAppError_NotInitialized(t *testing.T) {
	err := NotInitialized("ProcessOrder")
	if err.Code != ErrCodeNotInitialized {
		t.Errorf("expected NOT_INITIALIZED, got %s", err.Code)
	}
	if err.Details["function"] != "ProcessOrder" {
		t.Errorf("expected function=ProcessOrder, got %v", err.Details["function"])
	}
	if !strings.Contains(err.Error(), "ProcessOrder") {
		t.Errorf("expected function name in message, got %q", err.Error())
	}
}

func TestAppError_NotRegistered_Unnamed(t *testing.T) {
	err := NotRegistered("*db.Pool", "")
	if err.Code != ErrCodeNotRegistered {
		t.Errorf("expected NOT_REGISTERED, got %s", err.Code)
	}
	if _, ok := err.Details["name"]; ok {
		t.Error("expected no 'name' key in details for unnamed binding")
	}
}

func TestAppError_NotRegistered_Named(t *testing.T) {
	err := NotRegistered("*db.Pool", "primary")
	if err.Details["name"] != "primary" {
		t.Errorf("expected name=primary, got %v", err.Details["name"])
	}
	if !strings.Contains(err.Error(), "primary") {
		t.Errorf("expected binding name in message, got %q", err.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := ConstructorFailed("*svc.Thing", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := New(ErrCodeInternal, "oops").WithDetail("attempt", 2)
	if err.Details["attempt"] != 2 {
		t.Errorf("expected attempt=2, got %v", err.Details["attempt"])
	}
}

func TestIsCode(t *testing.T) {
	err := NotInitialized("F1")
	if !IsCode(err, ErrCodeNotInitialized) {
		t.Error("expected IsCode to match NOT_INITIALIZED")
	}
	if IsCode(err, ErrCodeInternal) {
		t.Error("expected IsCode not to match INTERNAL_ERROR")
	}
	if IsCode(nil, ErrCodeInternal) {
		t.Error("expected IsCode(nil) to be false")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsCode(wrapped, ErrCodeNotInitialized) {
		t.Error("expected IsCode to unwrap wrapped errors")
	}
}

func TestIsCode_NestedCode(t *testing.T) {
	inner := DependencyCycle("pkg.Conn", "")
	outer := ConstructorFailed("pkg.Service", inner)
	if !IsCode(outer, ErrCodeConstructorFailed) {
		t.Error("expected IsCode to match the outer CONSTRUCTOR_FAILED")
	}
	if !IsCode(outer, ErrCodeDependencyCycle) {
		t.Error("expected IsCode to find DEPENDENCY_CYCLE in the chain")
	}
	if IsCode(outer, ErrCodeNotRegistered) {
		t.Error("expected IsCode not to match a code absent from the chain")
	}
}

func TestIsCode_PlainError(t *testing.T) {
	if IsCode(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("expected plain error not to match any code")
	}
}
