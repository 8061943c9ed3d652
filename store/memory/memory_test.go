package memory_test

import (
	"testing"

	"github.com/warp/freelance-engine/store/memory"
	"github.com/warp/freelance-engine/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storetest.Resettable {
		return memory.New()
	})
}
