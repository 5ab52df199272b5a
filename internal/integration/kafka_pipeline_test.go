//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/recon-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/recon-data-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/recon-data-etl/internal/config"
	"github.com/couchcryptid/recon-data-etl/internal/domain"
	"github.com/couchcryptid/recon-data-etl/internal/observability"
	"github.com/couchcryptid/recon-data-etl/internal/pipeline"
)

const (
	testSourceTopic = "test-raw-hdob"
	testSinkTopic   = "test-decoded-observations"

	earlFixture = "20220905-09-HDOB-EARL-1006A-AF308.txt"
	kayFixture  = "20220905-12-HDOB-KAY-0112E-AF309.txt"
)

// transformedMessage holds a deserialized message read from the sink topic.
type transformedMessage struct {
	Message domain.DecodedMessage
	Key     string
	Headers map[string]string
}

// readTransformed reads a single message from the sink consumer and deserializes it.
func readTransformed(ctx context.Context, t *testing.T, consumer *kafkago.Reader) transformedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var decoded domain.DecodedMessage
	require.NoError(t, json.Unmarshal(msg.Value, &decoded), "unmarshal sink message")

	return transformedMessage{
		Message: decoded,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (extractor)
// and kafka.Writer (loader) correctly round-trip a product through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-reader-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	// Publish a raw HDOB product to the source topic.
	payload := loadFixture(t, earlFixture)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte("test-key"),
		Value: payload,
	}))

	// Extract via kafka.Reader.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	batch, err := reader.ExtractBatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("test-key"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")

	// Commit the offset.
	require.NoError(t, raw.Commit(ctx))

	// Transform the raw product into an output event.
	transformer := pipeline.NewTransformer(discardLogger(), observability.NewMetricsForTesting())
	event, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)

	// Load via kafka.Writer.
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.LoadBatch(ctx, []domain.OutputEvent{event}))

	// Read from the sink topic and verify headers + value.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	tm := readTransformed(ctx, t, consumer)
	assert.Equal(t, "AF308 1006A EARL", tm.Headers["mission_id"])
	assert.Equal(t, domain.BasinNorthAtlantic, tm.Headers["basin"])
	assert.Contains(t, tm.Headers, "processed_at")
	_, err = time.Parse(time.RFC3339, tm.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	assert.Equal(t, tm.Message.ID, tm.Key)
	assert.Equal(t, "EARL", tm.Message.StormName)
	assert.Equal(t, 9, tm.Message.ObsNumber)
	require.Len(t, tm.Message.Observations, 20)
	assert.Equal(t, int32(775200), tm.Message.Observations[0].AircraftPressureMicrobars)
}

// TestPipelineEndToEnd wires the full pipeline (Reader, Transformer, Writer
// teed into an archive) against real Kafka and verifies both fixture products
// arrive decoded.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-pipeline-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	// Publish both fixture products to the source topic.
	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("earl"), Value: loadFixture(t, earlFixture)},
		kafkago.Message{Key: []byte("kay"), Value: loadFixture(t, kayFixture)},
	))

	// Wire up the pipeline the way cmd/etl does, archive tee included.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	transformer := pipeline.NewTransformer(discardLogger(), observability.NewMetricsForTesting())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	archive, err := sqlite.Open(filepath.Join(t.TempDir(), "archive.db"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = archive.Close() })

	metrics := observability.NewMetricsForTesting()
	loader := pipeline.NewTee(writer, archive, discardLogger(), metrics)
	p := pipeline.New(reader, transformer, loader, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Read both decoded messages from the sink topic.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]transformedMessage, 2)
	for len(received) < 2 {
		tm := readTransformed(ctx, t, consumer)
		received[tm.Message.StormName] = tm
	}

	pipelineCancel()
	require.NoError(t, <-errCh)

	earl, ok := received["EARL"]
	require.True(t, ok, "expected EARL product on sink topic")
	assert.Equal(t, "AF308 1006A EARL", earl.Message.MissionID)
	assert.Equal(t, domain.BasinNorthAtlantic, earl.Message.Basin)
	assert.Len(t, earl.Message.Observations, 20)

	kay, ok := received["KAY"]
	require.True(t, ok, "expected KAY product on sink topic")
	assert.Equal(t, domain.BasinEastPacific, kay.Message.Basin)
	assert.Equal(t, 12, kay.Message.ObsNumber)
	assert.Len(t, kay.Message.Observations, 10)

	for name, tm := range received {
		assert.Contains(t, tm.Key, "hdob-", "%s key should carry the id prefix", name)
		_, err := time.Parse(time.RFC3339, tm.Headers["processed_at"])
		assert.NoError(t, err, "%s processed_at format", name)
	}

	// The archive tee should have stored both products.
	summaries, err := archive.RecentMessages(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}

// TestPipelineTransformError verifies that an undecodable product (poison
// pill) is skipped and the pipeline continues with valid messages.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-poison-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	// Publish: garbage, then a valid product.
	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not an hdob product")},
		kafkago.Message{Key: []byte("good"), Value: loadFixture(t, kayFixture)},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	transformer := pipeline.NewTransformer(discardLogger(), observability.NewMetricsForTesting())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Only the valid message should appear on the sink topic.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	tm := readTransformed(ctx, t, consumer)
	assert.Equal(t, "KAY", tm.Message.StormName)
	assert.Len(t, tm.Message.Observations, 10)

	// Verify no second message arrives (the poison pill was skipped).
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
