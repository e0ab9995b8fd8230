package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anchore/go-logger/adapter/discard"
)

func TestFromContext(t *testing.T) {
	global := discard.New()
	Set(global)

	assert.Equal(t, global, FromContext(context.Background()), "falls back to the global logger")

	scoped := discard.New()
	ctx := WithLogger(context.Background(), scoped)
	assert.Equal(t, scoped, FromContext(ctx))
}

func TestWithNested(t *testing.T) {
	Set(discard.New())

	ctx, lgr := WithNested(context.Background(), "command", "install")
	assert.NotNil(t, lgr)
	assert.Equal(t, lgr, FromContext(ctx))
}
