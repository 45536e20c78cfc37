package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-catalog-cache/catalog"
)

func TestDispatcher_DeliversInOrder(t *testing.T) {
	var d Dispatcher
	var got []string

	d.Subscribe(ListenerFunc(func(ctx context.Context, ev Event) { got = append(got, "a:"+ev.ID) }))
	d.Subscribe(ListenerFunc(func(ctx context.Context, ev Event) { got = append(got, "b:"+ev.ID) }))

	d.Publish(context.Background(), Event{ID: "1"}, Event{ID: "2"})

	assert.Equal(t, []string{"a:1", "b:1", "a:2", "b:2"}, got)
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	var d Dispatcher
	calls := 0

	unsubscribe := d.Subscribe(ListenerFunc(func(ctx context.Context, ev Event) { calls++ }))
	d.Publish(context.Background(), Event{})
	unsubscribe()
	d.Publish(context.Background(), Event{})

	assert.Equal(t, 1, calls)
}

func TestEvent_Products(t *testing.T) {
	ev := Event{
		Kind:    catalog.KindProduct,
		Prior:   catalog.Product{ID: "p", CategoryID: "a"},
		Current: catalog.Product{ID: "p", CategoryID: "b"},
	}

	prior, current := ev.Products()
	if assert.NotNil(t, prior) && assert.NotNil(t, current) {
		assert.Equal(t, "a", prior.CategoryID)
		assert.Equal(t, "b", current.CategoryID)
	}

	prior, current = Event{Kind: catalog.KindProduct, Current: catalog.Product{ID: "p"}}.Products()
	assert.Nil(t, prior)
	assert.NotNil(t, current)
}

func TestEvent_Link(t *testing.T) {
	link := catalog.ProductCoupon{ProductID: "p", CouponID: "c"}

	got, ok := Event{Kind: catalog.KindProductCoupon, Prior: link}.Link()
	assert.True(t, ok)
	assert.Equal(t, link, got)

	_, ok = Event{Kind: catalog.KindProduct}.Link()
	assert.False(t, ok)
}

func TestCheckSort(t *testing.T) {
	assert.NoError(t, CheckSort(SortName, ProductSortFields))
	assert.True(t, catalog.IsInvalidArgument(CheckSort("password", ProductSortFields)))
	assert.True(t, catalog.IsInvalidArgument(CheckSort(SortName, CouponSortFields)))
}
