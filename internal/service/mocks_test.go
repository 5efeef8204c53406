package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/domain"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/repository"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/shopify"
	"github.com/M4H1-4B1R/order-splitter-shopify/pkg/errors"
)

// In-memory repository implementations for service tests.

type memShopRepo struct {
	shops map[string]*domain.Shop
}

func (r *memShopRepo) GetByDomain(ctx context.Context, shop string) (*domain.Shop, error) {
	s, ok := r.shops[shop]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "shop", ID: shop}
	}
	return s, nil
}

func (r *memShopRepo) Upsert(ctx context.Context, s *domain.Shop) error {
	r.shops[s.Domain] = s
	return nil
}

type memSettingsRepo struct {
	rows map[string]*domain.AppSettings
}

func (r *memSettingsRepo) GetByShop(ctx context.Context, shop string) (*domain.AppSettings, error) {
	return r.rows[shop], nil
}

func (r *memSettingsRepo) Upsert(ctx context.Context, settings *domain.AppSettings) error {
	r.rows[settings.Shop] = settings
	return nil
}

type memMappingRepo struct {
	rows []*domain.LocationMapping
}

func (r *memMappingRepo) ListByShop(ctx context.Context, shop string) ([]*domain.LocationMapping, error) {
	var out []*domain.LocationMapping
	for _, m := range r.rows {
		if m.Shop == shop {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMappingRepo) Create(ctx context.Context, mapping *domain.LocationMapping) error {
	if mapping.ID == uuid.Nil {
		mapping.ID = uuid.New()
	}
	r.rows = append(r.rows, mapping)
	return nil
}

func (r *memMappingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, m := range r.rows {
		if m.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "location_mapping", ID: id.String()}
}

type memSplitLogRepo struct {
	rows []*domain.SplitLog
}

func (r *memSplitLogRepo) Create(ctx context.Context, log *domain.SplitLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.rows = append(r.rows, log)
	return nil
}

func (r *memSplitLogRepo) ListByShop(ctx context.Context, shop string, limit, offset int) ([]*domain.SplitLog, error) {
	var out []*domain.SplitLog
	for _, row := range r.rows {
		if row.Shop == shop {
			out = append(out, row)
		}
	}
	return out, nil
}

type memEventRepo struct {
	rows []*domain.WebhookEvent
}

func (r *memEventRepo) Create(ctx context.Context, event *domain.WebhookEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now()
	}
	r.rows = append(r.rows, event)
	return nil
}

func (r *memEventRepo) ListUnprocessed(ctx context.Context, limit int) ([]*domain.WebhookEvent, error) {
	var out []*domain.WebhookEvent
	for _, e := range r.rows {
		if e.ProcessedAt == nil && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEventRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	for _, e := range r.rows {
		if e.ID == id {
			now := time.Now()
			e.ProcessedAt = &now
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "webhook_event", ID: id.String()}
}

func (r *memEventRepo) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	for _, e := range r.rows {
		if e.ID == id {
			e.LastError = &lastError
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "webhook_event", ID: id.String()}
}

// fakeExecutor scripts GraphQL responses per operation and records every
// call for assertions.

type gqlCall struct {
	Query     string
	Variables map[string]interface{}
}

type fakeExecutor struct {
	calls    []gqlCall
	handlers map[string]func(vars map[string]interface{}) (*shopify.GraphQLResponse, error)
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{handlers: map[string]func(vars map[string]interface{}) (*shopify.GraphQLResponse, error){}}
}

func (f *fakeExecutor) ExecuteWithRetry(ctx context.Context, shop, accessToken, query string, variables map[string]interface{}) (*shopify.GraphQLResponse, error) {
	f.calls = append(f.calls, gqlCall{Query: query, Variables: variables})
	h, ok := f.handlers[query]
	if !ok {
		return nil, fmt.Errorf("unexpected GraphQL operation: %.40s", query)
	}
	return h(variables)
}

func (f *fakeExecutor) on(query string, h func(vars map[string]interface{}) (*shopify.GraphQLResponse, error)) {
	f.handlers[query] = h
}

// respond registers a fixed successful response for an operation
func (f *fakeExecutor) respond(query string, payload interface{}) {
	f.on(query, func(map[string]interface{}) (*shopify.GraphQLResponse, error) {
		return jsonResp(payload), nil
	})
}

func (f *fakeExecutor) callsTo(query string) []gqlCall {
	var out []gqlCall
	for _, c := range f.calls {
		if c.Query == query {
			out = append(out, c)
		}
	}
	return out
}

func jsonResp(payload interface{}) *shopify.GraphQLResponse {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return &shopify.GraphQLResponse{Data: data}
}

func noUserErrors(field string) map[string]interface{} {
	return map[string]interface{}{field: map[string]interface{}{"userErrors": []interface{}{}}}
}

// Order fixture builders. Orders are built as wire-shaped maps so the fake
// responses exercise the same JSON parsing as production.

func lineItemNode(id string, qty int, variantID, locationCode string, presale bool) map[string]interface{} {
	variant := map[string]interface{}{"id": variantID, "price": "25.00"}
	if locationCode != "" {
		variant["locationCode"] = map[string]interface{}{"value": locationCode}
	}
	node := map[string]interface{}{
		"id":       id,
		"quantity": qty,
		"variant":  variant,
	}
	if presale {
		node["location"] = map[string]interface{}{
			"location": map[string]interface{}{
				"id":        "gid://shopify/Location/77",
				"isPresale": map[string]interface{}{"value": "true"},
			},
		}
	}
	return node
}

func orderNode(name, financialStatus string, tags []string, metafields []map[string]interface{}, items ...map[string]interface{}) map[string]interface{} {
	if tags == nil {
		tags = []string{}
	}
	edges := make([]interface{}, 0, len(metafields))
	for _, mf := range metafields {
		edges = append(edges, map[string]interface{}{"node": mf})
	}
	return map[string]interface{}{
		"order": map[string]interface{}{
			"id":                     "gid://shopify/Order/5001",
			"name":                   name,
			"tags":                   tags,
			"metafields":             map[string]interface{}{"edges": edges},
			"displayFinancialStatus": financialStatus,
			"lineItems":              map[string]interface{}{"nodes": items},
		},
	}
}

func calculatedOrderNode(calcID string, lines ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"orderEditBegin": map[string]interface{}{
			"calculatedOrder": map[string]interface{}{
				"id":                  calcID,
				"calculatedLineItems": map[string]interface{}{"nodes": lines},
			},
			"userErrors": []interface{}{},
		},
	}
}

func calculatedLine(calcLineID string, qty int, originalLineID string) map[string]interface{} {
	return map[string]interface{}{
		"id":       calcLineID,
		"quantity": qty,
		"lineItem": map[string]interface{}{"id": originalLineID},
	}
}

// testEnv wires a SplitService against in-memory repos and the fake
// executor, with one installed shop and a deterministic clock.

const testShop = "splitter-test.myshopify.com"

type testEnv struct {
	svc      *SplitService
	exec     *fakeExecutor
	shops    *memShopRepo
	settings *memSettingsRepo
	mappings *memMappingRepo
	logs     *memSplitLogRepo
	events   *memEventRepo
}

func newTestEnv() *testEnv {
	env := &testEnv{
		exec:     newFakeExecutor(),
		shops:    &memShopRepo{shops: map[string]*domain.Shop{}},
		settings: &memSettingsRepo{rows: map[string]*domain.AppSettings{}},
		mappings: &memMappingRepo{},
		logs:     &memSplitLogRepo{},
		events:   &memEventRepo{},
	}
	env.shops.shops[testShop] = &domain.Shop{Domain: testShop, AccessToken: "shpat_test"}

	repos := &repository.Repositories{
		Shop:            env.shops,
		AppSettings:     env.settings,
		LocationMapping: env.mappings,
		SplitLog:        env.logs,
		WebhookEvent:    env.events,
	}
	env.svc = NewSplitService(env.exec, repos, zap.NewNop())
	env.svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return env
}

func (env *testEnv) addMapping(code, gid string) {
	env.mappings.rows = append(env.mappings.rows, &domain.LocationMapping{
		ID:           uuid.New(),
		Shop:         testShop,
		LocationCode: code,
		LocationGID:  gid,
	})
}

func (env *testEnv) ackMutations() {
	env.exec.respond(shopify.TagsAddMutation, noUserErrors("tagsAdd"))
	env.exec.respond(shopify.MetafieldUpsertMutation, noUserErrors("metafieldUpsert"))
}
