package kafkaout

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"restaurant_service/internal/core/domain"
	"restaurant_service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher announces order lifecycle events on a kafka topic, keyed by order
// id so events for one order stay in partition order. Publishing is
// best-effort: failures are logged and swallowed, an unreachable broker must
// not fail the order write that triggered the event.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

type PublisherConfig struct {
	Brokers []string
	Topic   string
}

func NewPublisher(cfg PublisherConfig, logger *zap.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

type envelope struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	OrderID   int             `json:"order_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type itemPayload struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type orderPayload struct {
	Customer  string        `json:"customer"`
	Price     float64       `json:"price"`
	ItemCount int           `json:"itemCount"`
	Items     []itemPayload `json:"items"`
}

func (p *Publisher) OrderCreated(ctx context.Context, order domain.Order) {
	items := make([]itemPayload, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, itemPayload{
			ID:       it.MenuItemID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	p.publish(ctx, "order.created", order.ID, orderPayload{
		Customer:  order.CustomerName,
		Price:     order.TotalPrice,
		ItemCount: order.ItemCount,
		Items:     items,
	})
}

func (p *Publisher) OrderItemAdded(ctx context.Context, orderID int, item domain.LineItem) {
	p.publish(ctx, "order.item_added", orderID, itemPayload{
		ID:       item.MenuItemID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Price:    item.Price,
	})
}

func (p *Publisher) OrderDeleted(ctx context.Context, orderID int) {
	p.publish(ctx, "order.deleted", orderID, nil)
}

func (p *Publisher) publish(ctx context.Context, eventType string, orderID int, payload any) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			p.logger.Warn("event payload marshal failed",
				zap.String("type", eventType), zap.Int("order_id", orderID), zap.Error(err))
			return
		}
		raw = b
	}

	b, err := json.Marshal(envelope{
		EventID:   uuid.NewString(),
		Type:      eventType,
		OrderID:   orderID,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	})
	if err != nil {
		p.logger.Warn("event marshal failed",
			zap.String("type", eventType), zap.Int("order_id", orderID), zap.Error(err))
		return
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(orderID)),
		Value: b,
	}); err != nil {
		p.logger.Warn("event publish failed",
			zap.String("type", eventType), zap.Int("order_id", orderID), zap.Error(err))
	}
}

var _ outbound.EventPublisher = (*Publisher)(nil)
