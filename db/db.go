package db

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/chordlight/model"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// BatchGetItem accepts at most this many keys per call.
const maxBatch = 100

// maxRetries bounds how often keys DynamoDB left unprocessed are asked for again.
const maxRetries = 3

// MetadataStore looks up title and artist of MIDI files by file name.
type MetadataStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
	// backoff before the nth retry is n times this
	retryDelay time.Duration
}

func NewMetadataStore(endpoint, region, table string) (*MetadataStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating DynamoDB session")
	}
	return NewMetadataStoreWithClient(dynamodb.New(sess), table), nil
}

func NewMetadataStoreWithClient(client dynamodbiface.DynamoDBAPI, table string) *MetadataStore {
	return &MetadataStore{client: client, table: table, retryDelay: 50 * time.Millisecond}
}

func (m *MetadataStore) GetMidiMetadatas(ctx context.Context, filenames []string) (map[string]model.MidiMetadata, error) {
	res := make(map[string]model.MidiMetadata)

	for start := 0; start < len(filenames); start += maxBatch {
		end := start + maxBatch
		if end > len(filenames) {
			end = len(filenames)
		}

		var keys []map[string]*dynamodb.AttributeValue
		for _, filename := range filenames[start:end] {
			keys = append(keys, map[string]*dynamodb.AttributeValue{
				"PK": {S: aws.String(filename)},
			})
		}

		if err := m.batchGet(ctx, keys, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// batchGet fetches keys into res, retrying whatever DynamoDB leaves
// unprocessed when it throttles.
func (m *MetadataStore) batchGet(ctx context.Context, keys []map[string]*dynamodb.AttributeValue, res map[string]model.MidiMetadata) error {
	request := map[string]*dynamodb.KeysAndAttributes{m.table: {Keys: keys}}

	for attempt := 0; ; attempt++ {
		out, err := m.client.BatchGetItemWithContext(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
		if err != nil {
			return errors.Wrap(err, "fetching midi metadata")
		}
		for _, item := range out.Responses[m.table] {
			if filename, meta, ok := metadataFromItem(item); ok {
				res[filename] = meta
			}
		}

		unprocessed := out.UnprocessedKeys[m.table]
		if unprocessed == nil || len(unprocessed.Keys) == 0 {
			return nil
		}
		if attempt == maxRetries {
			log.WithFields(log.Fields{
				"table":  m.table,
				"missed": len(unprocessed.Keys),
			}).Warn("giving up on unprocessed metadata keys")
			return nil
		}

		request = map[string]*dynamodb.KeysAndAttributes{m.table: unprocessed}
		timer := time.NewTimer(time.Duration(attempt+1) * m.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func metadataFromItem(item map[string]*dynamodb.AttributeValue) (string, model.MidiMetadata, bool) {
	var meta model.MidiMetadata
	pk := stringAttr(item, "PK")
	if pk == "" {
		return "", meta, false
	}
	if v, ok := item["Year"]; ok && v.N != nil {
		year, _ := strconv.ParseUint(*v.N, 10, 32)
		meta.Year = uint(year)
	}
	meta.Artist = stringAttr(item, "Artist")
	meta.Release = stringAttr(item, "Release")
	meta.Title = stringAttr(item, "Title")
	return pk, meta, true
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	if v, ok := item[name]; ok && v.S != nil {
		return *v.S
	}
	return ""
}
