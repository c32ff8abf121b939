package alert

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	rediscommon "owl-care/owl-common/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testMessage = "Warning, patient with id: p-1, need help"

type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) Send(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(topic string, qos byte, retained bool, payload []byte) error {
	args := m.Called(topic, qos, retained, payload)
	return args.Error(0)
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPatientIDContext(t *testing.T) {
	assert.Equal(t, "", PatientIDFromContext(context.Background()))
	assert.Equal(t, "p-1", PatientIDFromContext(WithPatientID(context.Background(), "p-1")))
}

func TestLogService_Send(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewLogService(zap.New(core))

	require.NoError(t, s.Send(WithPatientID(context.Background(), "p-1"), testMessage))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, testMessage, entries[0].Message)
	assert.Equal(t, "p-1", entries[0].ContextMap()["patient_id"])
}

func TestMQTTService_Send(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", "owl/medical/alerts", byte(1), false, mock.MatchedBy(func(payload []byte) bool {
		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			return false
		}
		return msg.PatientID == "p-1" && msg.Message == testMessage && !msg.SentAt.IsZero()
	})).Return(nil)

	s := NewMQTTService(pub, "owl/medical/alerts", 1)

	require.NoError(t, s.Send(WithPatientID(context.Background(), "p-1"), testMessage))
	pub.AssertExpectations(t)
}

func TestMQTTService_PublishError(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("not connected"))

	s := NewMQTTService(pub, "owl/medical/alerts", 0)

	assert.Error(t, s.Send(context.Background(), testMessage))
}

func TestStreamService_Send(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewStreamService(client, "medical:alerts")
	ctx := WithPatientID(context.Background(), "p-1")

	require.NoError(t, s.Send(ctx, testMessage))

	entries, err := client.XRange(context.Background(), "medical:alerts", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["data"].(string)), &msg))
	assert.Equal(t, "p-1", msg.PatientID)
	assert.Equal(t, testMessage, msg.Message)
}

func TestStreamService_ReadableByConsumerGroup(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	require.NoError(t, rediscommon.CreateConsumerGroup(ctx, client, "medical:alerts", "notifier"))
	require.NoError(t, NewStreamService(client, "medical:alerts").Send(ctx, testMessage))

	msgs, err := rediscommon.ReadFromStream(ctx, client, "medical:alerts", "notifier", "n-1", 10, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestKafkaService_Send(t *testing.T) {
	w := &fakeWriter{}
	s := NewKafkaService(w)

	require.NoError(t, s.Send(WithPatientID(context.Background(), "p-1"), testMessage))

	require.Len(t, w.messages, 1)
	assert.Equal(t, []byte("p-1"), w.messages[0].Key)

	var msg Message
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &msg))
	assert.Equal(t, testMessage, msg.Message)

	require.NoError(t, s.Close())
	assert.True(t, w.closed)
}

func TestKafkaService_WriteError(t *testing.T) {
	s := NewKafkaService(&fakeWriter{err: errors.New("leader not available")})

	err := s.Send(context.Background(), testMessage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}

func TestWebhookService_Send(t *testing.T) {
	var received Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	s := NewWebhookService(server.URL, time.Second, 0)

	require.NoError(t, s.Send(WithPatientID(context.Background(), "p-1"), testMessage))
	assert.Equal(t, "p-1", received.PatientID)
	assert.Equal(t, testMessage, received.Message)
}

func TestWebhookService_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s := NewWebhookService(server.URL, time.Second, 0)

	err := s.Send(context.Background(), testMessage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestMultiService_DeliversToAllSinks(t *testing.T) {
	first := new(MockAlertService)
	second := new(MockAlertService)
	first.On("Send", mock.Anything, testMessage).Return(errors.New("broker down"))
	second.On("Send", mock.Anything, testMessage).Return(nil)

	s := NewMultiService(zap.NewNop(),
		Sink{Name: "mqtt", Service: first},
		Sink{Name: "log", Service: second},
	)

	err := s.Send(context.Background(), testMessage)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mqtt: broker down")
	first.AssertNumberOfCalls(t, "Send", 1)
	second.AssertNumberOfCalls(t, "Send", 1)
}

func TestMultiService_AllSucceed(t *testing.T) {
	only := new(MockAlertService)
	only.On("Send", mock.Anything, testMessage).Return(nil)

	s := NewMultiService(zap.NewNop(), Sink{Name: "log", Service: only})

	assert.NoError(t, s.Send(context.Background(), testMessage))
}
