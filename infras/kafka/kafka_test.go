package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"seva/config"
)

func TestToKafkaMessages(t *testing.T) {
	t.Run("routes every message to the given topic", func(t *testing.T) {
		msgs, err := toKafkaMessages("seva.events", []Message{
			{Key: "inst-1", Value: map[string]string{"status": "pending"}},
			{Key: "inst-2", Value: "accepted"},
		})

		assert.NoError(t, err)
		assert.Len(t, msgs, 2)
		assert.Equal(t, "seva.events", msgs[0].Topic)
		assert.Equal(t, "seva.events", msgs[1].Topic)
		assert.Equal(t, []byte("inst-1"), msgs[0].Key)
		assert.JSONEq(t, `{"status":"pending"}`, string(msgs[0].Value))
	})

	t.Run("fails on an unmarshalable value", func(t *testing.T) {
		_, err := toKafkaMessages("seva.events", []Message{
			{Key: "inst-1", Value: make(chan int)},
		})

		assert.Error(t, err)
	})
}

func TestNew_SharesOneWriter(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Brokers = []string{"localhost:9092"}

	client := New(cfg)

	impl, ok := client.(*kafkaClientImpl)
	assert.True(t, ok)
	assert.NotNil(t, impl.writer)
	assert.Empty(t, impl.writer.Topic)
}
