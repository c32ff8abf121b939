package mqtt

import (
	"errors"
	"testing"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeToken struct {
	mqtt.Token
	err error
}

func (t *fakeToken) Wait() bool   { return true }
func (t *fakeToken) Error() error { return t.err }

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }

// fakePaho records calls; methods the wrapper never uses stay nil
type fakePaho struct {
	mqtt.Client
	connected    bool
	callbacks    map[string]mqtt.MessageHandler
	unsubscribed []string
	published    [][]byte
	err          error
}

func (f *fakePaho) IsConnected() bool { return f.connected }

func (f *fakePaho) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	if f.err == nil {
		f.callbacks[topic] = callback
	}
	return &fakeToken{err: f.err}
}

func (f *fakePaho) Unsubscribe(topics ...string) mqtt.Token {
	if f.err == nil {
		f.unsubscribed = append(f.unsubscribed, topics...)
	}
	return &fakeToken{err: f.err}
}

func (f *fakePaho) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	if f.err == nil {
		f.published = append(f.published, payload.([]byte))
	}
	return &fakeToken{err: f.err}
}

func newTestClient(logger *zap.Logger) (*Client, *fakePaho) {
	fake := &fakePaho{connected: true, callbacks: make(map[string]mqtt.MessageHandler)}
	return &Client{client: fake, logger: logger}, fake
}

func TestClient_SubscribeDeliversAndLogsHandlerErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	c, fake := newTestClient(zap.New(core))

	var got []string
	require.NoError(t, c.Subscribe("owl/+/vitals", 1, func(topic string, payload []byte) error {
		got = append(got, topic+" "+string(payload))
		if string(payload) == "bad" {
			return errors.New("cannot decode")
		}
		return nil
	}))

	cb := fake.callbacks["owl/+/vitals"]
	require.NotNil(t, cb)
	cb(fake, &fakeMessage{topic: "owl/bed-1/vitals", payload: []byte("ok")})
	cb(fake, &fakeMessage{topic: "owl/bed-2/vitals", payload: []byte("bad")})

	assert.Equal(t, []string{"owl/bed-1/vitals ok", "owl/bed-2/vitals bad"}, got)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "owl/bed-2/vitals", logs.All()[0].ContextMap()["topic"])
}

func TestClient_UnsubscribePublishAndState(t *testing.T) {
	c, fake := newTestClient(zap.NewNop())

	require.NoError(t, c.Publish("owl/alerts", 1, false, []byte(`{"a":1}`)))
	require.NoError(t, c.Unsubscribe("owl/+/vitals", "owl/alerts"))
	assert.Equal(t, [][]byte{[]byte(`{"a":1}`)}, fake.published)
	assert.Equal(t, []string{"owl/+/vitals", "owl/alerts"}, fake.unsubscribed)

	assert.True(t, c.IsConnected())
	fake.connected = false
	assert.False(t, c.IsConnected())
}

func TestClient_TokenErrors(t *testing.T) {
	c, fake := newTestClient(zap.NewNop())
	fake.err = errors.New("not connected")

	assert.ErrorContains(t, c.Subscribe("owl/+/vitals", 1, func(string, []byte) error { return nil }), "owl/+/vitals")
	assert.ErrorContains(t, c.Publish("owl/alerts", 1, false, nil), "not connected")
	assert.ErrorContains(t, c.Unsubscribe("owl/alerts"), "not connected")
}
