package events

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNop(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{Type: UserRegistered}))
}

func TestEvent_JSON(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(Event{Type: UserLoggedIn, UserID: "u1", Role: "Doctor", At: at})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"user_logged_in","user_id":"u1","role":"Doctor","at":"2026-03-01T10:00:00Z"}`, string(raw))
}

// TestKafkaProducer_Integration needs a reachable broker in KAFKA_TEST_BROKERS.
func TestKafkaProducer_Integration(t *testing.T) {
	brokers := os.Getenv("KAFKA_TEST_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_TEST_BROKERS is not set")
	}
	addrs := strings.Split(brokers, ",")
	topic := "user_events_test_" + uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", addrs[0])
	require.NoError(t, err)
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}))
	_ = conn.Close()

	p := NewKafkaProducer(addrs, topic)
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.Publish(ctx, Event{Type: UserDeleted, UserID: "u1", Role: "Patient"}))

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   addrs,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
		MaxWait:   time.Second,
	})
	defer r.Close()

	m, err := r.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", string(m.Key))

	var ev Event
	require.NoError(t, json.Unmarshal(m.Value, &ev))
	assert.Equal(t, UserDeleted, ev.Type)
	assert.False(t, ev.At.IsZero())
}
