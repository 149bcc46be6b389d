package memory

import (
	"testing"

	"github.com/MrSnakeDoc/horizon/internal/store"
	"github.com/MrSnakeDoc/horizon/internal/store/storetest"
)

var _ store.Store = (*Store)(nil)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}
