package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

var errMalformedVector = errors.New("malformed vector")

// toVector converts an embedding into the pgvector representation shared by the
// postgres column and the on-disk record format. Components are stored as
// float32, so every backend keeps float32 precision.
func toVector(embedding domain.Embedding) pgvector.Vector {
	floats := make([]float32, len(embedding))
	for i, v := range embedding {
		floats[i] = float32(v)
	}
	return pgvector.NewVector(floats)
}

func fromVector(vec pgvector.Vector) domain.Embedding {
	slice := vec.Slice()
	if slice == nil {
		return nil
	}
	embedding := make(domain.Embedding, len(slice))
	for i, v := range slice {
		embedding[i] = float64(v)
	}
	return embedding
}

// atStoredPrecision rounds each component to float32, the precision every
// backend persists.
func atStoredPrecision(embedding domain.Embedding) domain.Embedding {
	if embedding == nil {
		return nil
	}
	out := make(domain.Embedding, len(embedding))
	for i, v := range embedding {
		out[i] = float64(float32(v))
	}
	return out
}

// encodeEmbedding renders the text form "[0.1,0.2,...]" followed by a newline.
func encodeEmbedding(embedding domain.Embedding) []byte {
	return []byte(toVector(embedding).String() + "\n")
}

func decodeEmbedding(data []byte) (domain.Embedding, error) {
	text := strings.TrimSpace(string(data))
	if len(text) < 3 || text[0] != '[' || text[len(text)-1] != ']' {
		return nil, fmt.Errorf("%w: missing brackets", errMalformedVector)
	}

	var vec pgvector.Vector
	if err := vec.Parse(text); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedVector, err)
	}

	return fromVector(vec), nil
}

func corrupt(name string, err error) error {
	return domain.ErrCorruptProfile.WithError(fmt.Errorf("profile %q: %w", name, err))
}
