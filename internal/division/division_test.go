package division

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrar/pkg/platform/sentinel"
)

func TestStaticResolver(t *testing.T) {
	resolver := NewStaticResolver(map[string]int{
		"110000": 1,
		"110100": 2,
		"110105": 3,
	})
	ctx := context.Background()

	t.Run("known division", func(t *testing.T) {
		level, err := resolver.Level(ctx, "110105")
		require.NoError(t, err)
		assert.Equal(t, 3, level)
	})

	t.Run("unknown division", func(t *testing.T) {
		_, err := resolver.Level(ctx, "999999")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("seed adds and replaces entries", func(t *testing.T) {
		resolver.Seed(map[string]int{"440300": 2, "110105": 3})
		level, err := resolver.Level(ctx, "440300")
		require.NoError(t, err)
		assert.Equal(t, 2, level)
	})

	t.Run("seed table is copied, not aliased", func(t *testing.T) {
		source := map[string]int{"310000": 1}
		r := NewStaticResolver(source)
		source["310000"] = 9

		level, err := r.Level(ctx, "310000")
		require.NoError(t, err)
		assert.Equal(t, 1, level)
	})
}

func TestCachedResolverNilClient(t *testing.T) {
	inner := NewStaticResolver(map[string]int{"110000": 1})
	assert.Same(t, Resolver(inner), NewCachedResolver(inner, nil, 0))
}
