package systems

import (
	"sort"

	"github.com/open-betalpha/server/internal/ecs"
	"github.com/open-betalpha/server/internal/events"
	"github.com/open-betalpha/server/internal/netio"
)

// flushSendPackets implements spec invariant 6: within one entity's
// outbound stream, packets appear in non-decreasing ord order, with ties
// broken by publish order (a stable sort preserves that).
func flushSendPackets(d *Deps) {
	pending := events.Drain[events.SendPacket](d.Bus)
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Entity != pending[j].Entity {
			return pending[i].Entity < pending[j].Entity
		}
		return pending[i].Ord < pending[j].Ord
	})

	byEntity := make(map[ecs.Entity][]byte)
	order := make([]ecs.Entity, 0)
	for _, ev := range pending {
		if _, ok := byEntity[ev.Entity]; !ok {
			order = append(order, ev.Entity)
		}
		byEntity[ev.Entity] = append(byEntity[ev.Entity], ev.Bytes...)
	}

	for _, e := range order {
		cs, ok := ecs.Get[*netio.ClientStream](d.World, e)
		if !ok {
			continue
		}
		if err := cs.Write(byEntity[e]); err != nil {
			setState(d.World, e, ecs.StateDisconnecting, "write failed: "+err.Error())
		}
	}
}
