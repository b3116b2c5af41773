// Package recheck periodically re-prices tracked products and fires alerts on
// price drops.
package recheck

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/SudhakarGollapinni/DealFinder/internal/ledger"
	"github.com/SudhakarGollapinni/DealFinder/internal/notify"
	"github.com/SudhakarGollapinni/DealFinder/internal/product"
	"github.com/SudhakarGollapinni/DealFinder/internal/resolve"
	"github.com/SudhakarGollapinni/DealFinder/internal/search"
)

const (
	// recheckSpec runs the sweep every six hours.
	recheckSpec = "0 */6 * * *"

	// recheckMaxResults keeps periodic sweeps cheap: a basic search capped at
	// three hits per product rather than a full deal run.
	recheckMaxResults = 3
)

// Checker sweeps the subscription store, re-searches each tracked product,
// and notifies subscribers whose last recorded price beat the new cheapest
// offer.
type Checker struct {
	Store    *notify.Store
	Provider search.Provider
	Resolver *resolve.Resolver
	Sender   notify.Sender

	cron *cron.Cron
}

// Start schedules the periodic sweep and runs one immediately in the
// background so fresh subscriptions are not stale for six hours.
func (c *Checker) Start(ctx context.Context) error {
	c.cron = cron.New()
	_, err := c.cron.AddFunc(recheckSpec, func() { c.Sweep(ctx) })
	if err != nil {
		return err
	}
	c.cron.Start()
	go c.Sweep(ctx)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (c *Checker) Stop() {
	if c.cron != nil {
		<-c.cron.Stop().Done()
	}
}

// Sweep rechecks every tracked product once. Per-product failures are logged
// and skipped so one bad product cannot stall the rest of the sweep.
func (c *Checker) Sweep(ctx context.Context) {
	names, err := c.Store.Products()
	if err != nil {
		log.Error().Err(err).Msg("recheck: list tracked products")
		return
	}
	if len(names) == 0 {
		return
	}
	log.Info().Int("products", len(names)).Msg("recheck sweep starting")
	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		if err := c.checkProduct(ctx, name); err != nil {
			log.Warn().Err(err).Str("product", name).Msg("recheck failed; skipping")
		}
	}
}

func (c *Checker) checkProduct(ctx context.Context, name string) error {
	hits, err := c.Provider.Search(ctx, name+" price", search.Options{
		Depth:             search.DepthBasic,
		MaxResults:        recheckMaxResults,
		IncludeRawContent: true,
	})
	if err != nil {
		return err
	}

	led := ledger.New()
	products := product.Finalize(c.Resolver.Resolve(ctx, name, hits, led))
	if len(products) == 0 {
		log.Debug().Str("product", name).Msg("recheck found no priced offers")
		return nil
	}

	cheapest := products[0]
	newPrice := cheapest.Price.SortValue()
	now := time.Now()

	subs, err := c.Store.ByProduct(name)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if sub.LastPrice != nil && newPrice < *sub.LastPrice {
			alert := notify.Alert{
				ProductName: name,
				ProductURL:  cheapest.URL,
				OldPrice:    *sub.LastPrice,
				NewPrice:    newPrice,
			}
			if err := c.Sender.Send(sub, alert); err != nil {
				log.Warn().Err(err).Str("product", name).Msg("alert delivery failed")
			}
		}
	}
	return c.Store.UpdateLastPrice(name, newPrice, now)
}
