package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/chordlight/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items   map[string]map[string]*dynamodb.AttributeValue
	batches []int
	err     error
	calls   int
	// calls that only process the first key and hand back the rest
	throttle int
}

func (f *fakeDynamo) BatchGetItemWithContext(_ aws.Context, in *dynamodb.BatchGetItemInput, _ ...request.Option) (*dynamodb.BatchGetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	out := &dynamodb.BatchGetItemOutput{
		Responses:       map[string][]map[string]*dynamodb.AttributeValue{},
		UnprocessedKeys: map[string]*dynamodb.KeysAndAttributes{},
	}
	for table, ka := range in.RequestItems {
		f.batches = append(f.batches, len(ka.Keys))
		keys := ka.Keys
		if f.calls <= f.throttle && len(keys) > 1 {
			out.UnprocessedKeys[table] = &dynamodb.KeysAndAttributes{Keys: keys[1:]}
			keys = keys[:1]
		}
		for _, key := range keys {
			if item, ok := f.items[*key["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func TestGetMidiMetadatas(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{
		"moonlight.mid": {
			"PK":      {S: aws.String("moonlight.mid")},
			"Title":   {S: aws.String("Moonlight Sonata")},
			"Artist":  {S: aws.String("Beethoven")},
			"Release": {S: aws.String("Op. 27")},
			"Year":    {N: aws.String("1801")},
		},
	}}
	store := NewMetadataStoreWithClient(fake, "metadata")

	res, err := store.GetMidiMetadatas(context.Background(), []string{"moonlight.mid", "unknown.mid"})
	require.NoError(t, err)
	assert.Equal(t, map[string]model.MidiMetadata{
		"moonlight.mid": {Title: "Moonlight Sonata", Artist: "Beethoven", Release: "Op. 27", Year: 1801},
	}, res)
}

func TestGetMidiMetadatasBatches(t *testing.T) {
	fake := &fakeDynamo{}
	store := NewMetadataStoreWithClient(fake, "metadata")

	var names []string
	for i := 0; i < 250; i++ {
		names = append(names, fmt.Sprintf("%03d.mid", i))
	}
	_, err := store.GetMidiMetadatas(context.Background(), names)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 100, 50}, fake.batches)
}

func TestGetMidiMetadatasError(t *testing.T) {
	store := NewMetadataStoreWithClient(&fakeDynamo{err: errors.New("boom")}, "metadata")
	_, err := store.GetMidiMetadatas(context.Background(), []string{"a.mid"})
	assert.Error(t, err)
}

func TestMetadataFromItemWithoutKey(t *testing.T) {
	_, _, ok := metadataFromItem(map[string]*dynamodb.AttributeValue{
		"Title": {S: aws.String("Nameless")},
	})
	assert.False(t, ok)
}

func metadataItems(names ...string) map[string]map[string]*dynamodb.AttributeValue {
	items := make(map[string]map[string]*dynamodb.AttributeValue)
	for _, name := range names {
		items[name] = map[string]*dynamodb.AttributeValue{
			"PK":    {S: aws.String(name)},
			"Title": {S: aws.String("title of " + name)},
		}
	}
	return items
}

func TestGetMidiMetadatasRetriesUnprocessedKeys(t *testing.T) {
	assert := assert.New(t)
	fake := &fakeDynamo{items: metadataItems("a.mid", "b.mid", "c.mid"), throttle: 2}
	store := NewMetadataStoreWithClient(fake, "metadata")
	store.retryDelay = 0

	res, err := store.GetMidiMetadatas(context.Background(), []string{"a.mid", "b.mid", "c.mid"})
	require.NoError(t, err)
	assert.Len(res, 3)
	assert.Equal("title of c.mid", res["c.mid"].Title)
	assert.Equal([]int{3, 2, 1}, fake.batches)
}

func TestGetMidiMetadatasGivesUpOnThrottling(t *testing.T) {
	assert := assert.New(t)
	names := []string{"a.mid", "b.mid", "c.mid", "d.mid", "e.mid", "f.mid"}
	fake := &fakeDynamo{items: metadataItems(names...), throttle: 100}
	store := NewMetadataStoreWithClient(fake, "metadata")
	store.retryDelay = 0

	res, err := store.GetMidiMetadatas(context.Background(), names)
	require.NoError(t, err)
	assert.Equal(maxRetries+1, fake.calls)
	assert.Len(res, maxRetries+1)
	assert.NotContains(res, "f.mid")
}
