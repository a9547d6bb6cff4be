package tui

import (
	"github.com/dbmrq/gorestaurant/internal/food"
	"github.com/dbmrq/gorestaurant/internal/listsync"
)

// opAvailability names the availability toggle in result messages. On the
// wire it is an update.
const opAvailability = "availability"

// StateMsg carries a synchronizer snapshot taken after a change.
type StateMsg struct {
	State listsync.State
}

// OperationDoneMsg is returned by the command that ran a remote operation.
type OperationDoneMsg struct {
	Op   string
	Item food.Item
	ID   int
	// Count is the number of items after a list.
	Count int
	Err   error
}
