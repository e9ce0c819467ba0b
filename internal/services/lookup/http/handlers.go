// Package http provides the HTTP transport for lookups
package http

import (
	stdhttp "net/http"

	"steakfeed/internal/core/record"
	"steakfeed/internal/modkit/httpkit"
	"steakfeed/internal/services/lookup/domain"
)

// Register mounts lookup endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// static segment first so it is not read as a hash
	httpkit.Get(r, "/current", h.current)
	httpkit.Get(r, "/{hash}", h.get)
	httpkit.GetQuery[domain.RingInput](r, "/{hash}/ring", h.ring)
}

type handlers struct{ svc domain.ServicePort }

// RingView is the data block of a ring response
type RingView struct {
	Start string           `json:"start" example:"current"`
	Stop  domain.Stop      `json:"stop" example:"closed"`
	Next  string           `json:"next,omitempty"`
	Items []map[string]any `json:"items"`
}

// @Summary Current state
// @Description Sentinel copy of the oldest update of the most recently ingested game
// @Tags Updates
// @Produce json
// @Success 200 {object} map[string]any "ok"
// @Failure 404 {object} httpkit.Envelope "not ingested yet"
// @Router /updates/current [get]
func (h *handlers) current(r *stdhttp.Request) (any, error) {
	it, err := h.svc.Current(r.Context())
	if err != nil {
		return nil, err
	}
	return it.Plain(), nil
}

// @Summary Update by hash
// @Tags Updates
// @Produce json
// @Param hash path string true "Update hash"
// @Success 200 {object} map[string]any "ok"
// @Failure 404 {object} httpkit.Envelope "unknown hash"
// @Router /updates/{hash} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	it, err := h.svc.Get(r.Context(), httpkit.Param(r, "hash"))
	if err != nil {
		return nil, err
	}
	return it.Plain(), nil
}

// @Summary Walk the ring from a hash
// @Description Follows next_id until the walk returns to its start, reaches a missing link or returns limit items.
// @Description page.cursor holds the next hash when the walk stopped early.
// @Tags Updates
// @Produce json
// @Param hash path string true "Start hash"
// @Param limit query int false "Max items (1..500)" default(50)
// @Success 200 {object} RingView "ok"
// @Router /updates/{hash}/ring [get]
func (h *handlers) ring(r *stdhttp.Request, in domain.RingInput) (any, error) {
	ring, err := h.svc.Ring(r.Context(), httpkit.Param(r, "hash"), in.Limit)
	if err != nil {
		return nil, err
	}
	cursor := ""
	if ring.Stop == domain.StopLimit {
		cursor = ring.Next
	}
	view := RingView{Start: ring.Start, Stop: ring.Stop, Next: ring.Next, Items: plain(ring.Items)}
	return httpkit.List(view, len(ring.Items), in.Limit, cursor), nil
}

func plain(items []record.Item) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, it := range items {
		out[i] = it.Plain()
	}
	return out
}
