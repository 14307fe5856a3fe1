// Package mirror implements the client side of the protocol: a
// SweeperSocket capability set that a frontend drives without caring
// whether it's talking to an in-process World or one across a network,
// grounded on crates/wgpu-frontend/src/sweeper_socket/{local,websocket}.rs.
package mirror

import (
	"github.com/infinite-sweeper/sweeperd/internal/wire"
	"github.com/infinite-sweeper/sweeperd/internal/world"
)

// SweeperSocket is the capability set a frontend needs: send a client
// message, drain server messages one at a time, and reach the World
// backing whichever of the two the caller is holding (authoritative for
// LocalSocket, a mirrored replica for RemoteSocket).
type SweeperSocket interface {
	Send(msg wire.ClientMessage)
	NextMessage() (wire.ServerMessage, bool)
	World() *world.World
}
