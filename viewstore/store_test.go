package viewstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gridkit/blobstore"
	"github.com/hupe1980/gridkit/codec"
	"github.com/hupe1980/gridkit/filter"
	"github.com/hupe1980/gridkit/row"
	"github.com/hupe1980/gridkit/state"
)

// mockDDBClient is an in-memory DynamoDB mock for testing.
type mockDDBClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue // grid:name -> item
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{items: make(map[string]map[string]types.AttributeValue)}
}

func keyOf(item map[string]types.AttributeValue) string {
	return item[attrGridID].(*types.AttributeValueMemberS).Value + ":" + item[attrName].(*types.AttributeValueMemberS).Value
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
}

func (m *mockDDBClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := keyOf(params.Item)
	existing, exists := m.items[key]
	if params.ConditionExpression != nil {
		switch *params.ConditionExpression {
		case "attribute_not_exists(#name)":
			if exists {
				return nil, conditionFailed()
			}
		case "#version = :expected":
			want := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value
			if !exists || existing[attrVersion].(*types.AttributeValueMemberN).Value != want {
				return nil, conditionFailed()
			}
		}
	}
	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &dynamodb.GetItemOutput{Item: m.items[keyOf(params.Key)]}, nil
}

// Query returns one item per page to exercise pagination.
func (m *mockDDBClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	grid := params.ExpressionAttributeValues[":grid"].(*types.AttributeValueMemberS).Value
	var keys []string
	for k := range m.items {
		if strings.HasPrefix(k, grid+":") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if params.ExclusiveStartKey != nil {
		after := keyOf(params.ExclusiveStartKey)
		for start < len(keys) && keys[start] <= after {
			start++
		}
	}
	if start >= len(keys) {
		return &dynamodb.QueryOutput{}, nil
	}

	item := m.items[keys[start]]
	out := &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{{attrName: item[attrName]}}}
	if start+1 < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{attrGridID: item[attrGridID], attrName: item[attrName]}
	}
	return out, nil
}

func (m *mockDDBClient) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := keyOf(params.Key)
	if _, ok := m.items[key]; !ok {
		return nil, conditionFailed()
	}
	delete(m.items, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"blob":   NewBlobStore(blobstore.NewMemoryStore()),
		"dynamo": NewDynamoStore(newMockDDBClient(), "gridkit-views"),
	}
}

func sampleView(name string) *View {
	return &View{
		Name:        name,
		QuickFilter: "ber",
		Filters: map[string]Selection{
			"amount": NumberSelection(filter.NumberSelection{Method: filter.MethodTopN, Value: row.Int(10)}),
		},
		Sort:     Sort{Column: "amount", Direction: state.Descending},
		PageSize: 50,
	}
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			v := sampleView("top")
			require.NoError(t, s.Save(ctx, "orders", v))
			assert.Equal(t, int64(1), v.Version)
			assert.False(t, v.UpdatedAt.IsZero())

			got, err := s.Load(ctx, "orders", "top")
			require.NoError(t, err)
			assert.Equal(t, int64(1), got.Version)
			assert.Equal(t, "ber", got.QuickFilter)
			assert.Equal(t, state.Descending, got.Sort.Direction)
			assert.Equal(t, 50, got.PageSize)

			needles, err := got.Needles()
			require.NoError(t, err)
			assert.Equal(t, filter.NumberSelection{Method: filter.MethodTopN, Value: row.Int(10)}, needles["amount"])
		})
	}
}

func TestStore_OptimisticConcurrency(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, "orders", sampleView("shared")))

			a, err := s.Load(ctx, "orders", "shared")
			require.NoError(t, err)
			b, err := s.Load(ctx, "orders", "shared")
			require.NoError(t, err)

			a.PageSize = 10
			require.NoError(t, s.Save(ctx, "orders", a))
			assert.Equal(t, int64(2), a.Version)

			b.PageSize = 20
			err = s.Save(ctx, "orders", b)
			require.ErrorIs(t, err, ErrConcurrentModification)
			assert.Equal(t, int64(1), b.Version)

			// A second create of the same name is a conflict as well.
			err = s.Save(ctx, "orders", sampleView("shared"))
			assert.ErrorIs(t, err, ErrConcurrentModification)

			got, err := s.Load(ctx, "orders", "shared")
			require.NoError(t, err)
			assert.Equal(t, 10, got.PageSize)
		})
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, n := range []string{"c", "a", "b"} {
				require.NoError(t, s.Save(ctx, "orders", sampleView(n)))
			}
			require.NoError(t, s.Save(ctx, "customers", sampleView("z")))

			names, err := s.List(ctx, "orders")
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b", "c"}, names)

			require.NoError(t, s.Delete(ctx, "orders", "b"))
			names, err = s.List(ctx, "orders")
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "c"}, names)

			assert.ErrorIs(t, s.Delete(ctx, "orders", "b"), ErrViewNotFound)
			_, err = s.Load(ctx, "orders", "b")
			assert.ErrorIs(t, err, ErrViewNotFound)

			names, err = s.List(ctx, "nobody")
			require.NoError(t, err)
			assert.Empty(t, names)
		})
	}
}

func TestStore_RejectsBadNames(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Save(ctx, "", sampleView("a")), ErrInvalidView)
			assert.ErrorIs(t, s.Save(ctx, "orders", sampleView("../x")), ErrInvalidView)
			_, err := s.Load(ctx, "orders", "")
			assert.ErrorIs(t, err, ErrInvalidView)
		})
	}
}

func TestBlobStore_ReadsViewsOfOtherCodec(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()

	older := NewBlobStore(mem, WithCodec(codec.JSON{}))
	require.NoError(t, older.Save(ctx, "orders", sampleView("legacy")))

	data, err := blobstore.ReadAll(ctx, mem, "views/orders/legacy.json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "gridkit-view json\n"))

	newer := NewBlobStore(mem)
	got, err := newer.Load(ctx, "orders", "legacy")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)

	got.PageSize = 5
	require.NoError(t, newer.Save(ctx, "orders", got))
	assert.Equal(t, int64(2), got.Version)
}

func TestBlobStore_Prefix(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	s := NewBlobStore(mem, WithPrefix("tenant-1/saved"))
	require.NoError(t, s.Save(ctx, "orders", sampleView("mine")))

	names, err := mem.List(ctx, "tenant-1/saved/orders/")
	require.NoError(t, err)
	assert.Equal(t, []string{"tenant-1/saved/orders/mine.json"}, names)
}

// racingStore lets another writer replace a blob right after it was read.
type racingStore struct {
	*blobstore.MemoryStore
	race func()
}

func (r *racingStore) GetRevision(ctx context.Context, name string) ([]byte, string, error) {
	data, rev, err := r.MemoryStore.GetRevision(ctx, name)
	if race := r.race; race != nil {
		r.race = nil
		race()
	}
	return data, rev, err
}

func TestBlobStore_ConditionalWriteAcrossStores(t *testing.T) {
	ctx := context.Background()
	shared := &racingStore{MemoryStore: blobstore.NewMemoryStore()}

	alice := NewBlobStore(shared)
	bob := NewBlobStore(shared)

	v := sampleView("shared")
	require.NoError(t, alice.Save(ctx, "orders", v))

	mine, err := alice.Load(ctx, "orders", "shared")
	require.NoError(t, err)
	theirs, err := bob.Load(ctx, "orders", "shared")
	require.NoError(t, err)

	// Bob's save lands between Alice's read and her write.
	shared.race = func() {
		theirs.QuickFilter = "bob"
		require.NoError(t, bob.Save(ctx, "orders", theirs))
	}
	mine.QuickFilter = "alice"
	err = alice.Save(ctx, "orders", mine)
	require.ErrorIs(t, err, ErrConcurrentModification)

	got, err := alice.Load(ctx, "orders", "shared")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.QuickFilter)
	assert.Equal(t, int64(2), got.Version)
}
