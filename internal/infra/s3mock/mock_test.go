package infra_s3mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	s := New("replays")
	ctx := context.Background()
	doc := []byte(`{"history":[]}`)

	key, err := s.Save(ctx, "room-1.json", doc)
	require.NoError(t, err)
	assert.Equal(t, "replays/room-1.json", key)

	doc[0] = 'x'
	got, err := s.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"history":[]}`, string(got))
}

func TestLoadMissing(t *testing.T) {
	_, err := New("replays").Load(context.Background(), "replays/none.json")

	assert.ErrorIs(t, err, ErrObjectNotFound)
}
