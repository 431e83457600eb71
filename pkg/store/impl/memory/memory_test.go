package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/factory"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	s, err := factory.New[Option](StoreTypeMemory, nil, nil)
	require.NoError(t, err)
	defer s.Close()
	storetest.Run(t, s)
}
