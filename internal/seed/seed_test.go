package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

type recordingWriter struct {
	ids []domain.ProductID
	err error
}

func (w *recordingWriter) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if w.err != nil {
		return nil, w.err
	}
	w.ids = append(w.ids, p.ID)
	return &p, nil
}

func TestApply(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, Apply(context.Background(), w))
	assert.Equal(t, []domain.ProductID{1, 2, 3}, w.ids)
}

func TestApplyError(t *testing.T) {
	w := &recordingWriter{err: errors.New("boom")}
	err := Apply(context.Background(), w)
	assert.ErrorContains(t, err, "upsert product 1")
}
