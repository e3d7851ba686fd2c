package memory_test

import (
	"testing"

	"github.com/aretw0/stylebot/internal/adapters/memory"
	"github.com/aretw0/stylebot/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunRunStoreContract(t, store)
}
