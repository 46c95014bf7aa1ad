package code

import (
	"testing"

	"github.com/pkg/errors"
)

func TestOf(t *testing.T) {
	err := errors.Wrapf(NewUnauthorized("someone"), "execute %s", "proxy")
	if Of(err) != Unauthorized {
		t.Fatalf("expected %d through wrapping, got %d", Unauthorized, Of(err))
	}
	if !Is(err, Unauthorized) {
		t.Fatal("Is must see through wrapping")
	}
	if Of(nil) != OK {
		t.Fatal("nil must be OK")
	}
	if Of(errors.New("foreign")) != DecodeError {
		t.Fatal("foreign errors map to DecodeError")
	}
}
