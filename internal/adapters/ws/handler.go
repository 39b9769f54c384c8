package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"foodloop-marketplace-service/internal/domain/item"
	"foodloop-marketplace-service/internal/domain/shared"
	"foodloop-marketplace-service/internal/domain/user"
	"foodloop-marketplace-service/internal/ports/inbound"
	"foodloop-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WsHandler manages WebSocket connections and message routing
type WsHandler struct {
	clients       map[string]*WsClient // clientID -> Client
	clientsMu     sync.RWMutex
	eventChannels map[string]chan outbound.Event // clientID -> local event channel
	channelsMu    sync.RWMutex
	upgrader      websocket.Upgrader
	marketplace   inbound.MarketplaceService
	broadcaster   outbound.Broadcaster
	logger        zerolog.Logger
}

type WsHandlerParams struct {
	Upgrader    websocket.Upgrader
	Marketplace inbound.MarketplaceService
	Broadcaster outbound.Broadcaster
	Logger      zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(params WsHandlerParams) *WsHandler {
	return &WsHandler{
		clients:       make(map[string]*WsClient),
		eventChannels: make(map[string]chan outbound.Event),
		upgrader:      params.Upgrader,
		marketplace:   params.Marketplace,
		broadcaster:   params.Broadcaster,
		logger:        params.Logger.With().Str("component", "ws_handler").Logger(),
	}
}

// HandleWebSocket handles WebSocket connection upgrades. The user_id query
// parameter is the authenticated principal supplied by the edge; the engine
// trusts nothing else about the caller.
func (handler *WsHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userIDStr := r.URL.Query().Get("user_id")
	if userIDStr == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		http.Error(w, "invalid user_id format", http.StatusBadRequest)
		return
	}

	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		handler.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := NewClient(WsClientParams{
		UserID:  userID,
		Conn:    conn,
		Handler: handler,
		Logger:  handler.logger,
	})

	handler.registerClient(client)
	handler.createEventChannel(client.id)

	client.Start()

	go handler.listenForClientEvents(client)

	go func() {
		<-client.ctx.Done()
		handler.unregisterClient(client)
	}()

	handler.logger.Info().Str("client_id", client.id).Str("user_id", client.userID.String()).Msg("WebSocket client connected")
}

// createEventChannel creates a local event channel for a client
func (handler *WsHandler) createEventChannel(clientID string) chan outbound.Event {
	handler.channelsMu.Lock()
	defer handler.channelsMu.Unlock()

	if eventChan, exists := handler.eventChannels[clientID]; exists {
		return eventChan
	}

	eventChan := make(chan outbound.Event, 100)
	handler.eventChannels[clientID] = eventChan
	return eventChan
}

func (handler *WsHandler) getEventChannel(clientID string) chan outbound.Event {
	handler.channelsMu.RLock()
	defer handler.channelsMu.RUnlock()

	return handler.eventChannels[clientID]
}

func (handler *WsHandler) removeEventChannel(clientID string) {
	handler.channelsMu.Lock()
	defer handler.channelsMu.Unlock()

	if eventChan, exists := handler.eventChannels[clientID]; exists {
		close(eventChan)
		delete(handler.eventChannels, clientID)
	}
}

func (handler *WsHandler) registerClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()
	handler.clients[client.id] = client
}

func (handler *WsHandler) unregisterClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()

	delete(handler.clients, client.id)
	client.Stop()
	handler.removeEventChannel(client.id)

	handler.logger.Info().
		Str("client_id", client.id).
		Str("user_id", client.userID.String()).
		Int("total_clients", len(handler.clients)).
		Msg("WebSocket client disconnected")
}

// listenForClientEvents forwards broadcast events to the client connection
func (handler *WsHandler) listenForClientEvents(client *WsClient) {
	eventChan := handler.getEventChannel(client.id)
	if eventChan == nil {
		handler.logger.Error().Str("client_id", client.id).Msg("No event channel found for client")
		return
	}

	for {
		select {
		case event := <-eventChan:
			wsMessage := handler.convertEventToMessage(event)

			if err := client.Send(wsMessage); err != nil {
				handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to send event to WebSocket client")
			}

		case <-client.ctx.Done():
			handler.logger.Debug().Str("client_id", client.id).Msg("Client disconnected, stopping event listener")
			return
		}
	}
}

func (handler *WsHandler) HandleClientMessage(client *WsClient, msg *ClientMessage) error {
	switch msg.Type {
	case MessageTypeSubscribe:
		return handler.handleSubscribe(client, msg)

	case MessageTypeUnsubscribe:
		return handler.handleUnsubscribe(client, msg)

	case MessageTypeRegisterUser:
		return handler.handleRegisterUser(client, msg)

	case MessageTypeListItem:
		return handler.handleListItem(client, msg)

	case MessageTypeReserveItem:
		return handler.handleReserveItem(client, msg)

	case MessageTypeConfirmCollection:
		return handler.handleConfirmCollection(client, msg)

	case MessageTypeMarkExpired:
		return handler.handleMarkExpired(client, msg)

	case MessageTypeGetItem:
		return handler.handleGetItem(client, msg)

	case MessageTypeGetUser:
		return handler.handleGetUser(client, msg)

	case MessageTypeGetStats:
		return handler.handleGetStats(client, msg)

	default:
		handler.logger.Warn().Str("client_id", client.id).Str("message_type", string(msg.Type)).Msg("Unknown message type from client")
		return shared.ErrUnknownMessageType
	}
}

func (handler *WsHandler) convertEventToMessage(event outbound.Event) *ServerMessage {
	msgType := MessageTypeMarketplaceUpdate
	switch event.Type {
	case outbound.EventTypeUserRegistered:
		msgType = MessageTypeUserRegistered
	case outbound.EventTypeItemListed:
		msgType = MessageTypeItemListed
	case outbound.EventTypeItemReserved:
		msgType = MessageTypeItemReserved
	case outbound.EventTypeItemCollected:
		msgType = MessageTypeItemCollected
	}

	return &ServerMessage{
		Type:      msgType,
		Data:      event.Data,
		Timestamp: event.Timestamp,
	}
}

// GetConnectedClients returns the number of connected clients
func (handler *WsHandler) GetConnectedClients() int {
	handler.clientsMu.RLock()
	defer handler.clientsMu.RUnlock()
	return len(handler.clients)
}

// topicForMessage maps a subscription request to a broadcast topic: the item
// topic when an item id is supplied, the marketplace lobby otherwise.
func topicForMessage(msg *ClientMessage) string {
	if msg.ItemID != nil {
		return outbound.ItemTopic(*msg.ItemID)
	}
	return outbound.LobbyTopic
}

func (handler *WsHandler) handleSubscribe(client *WsClient, msg *ClientMessage) error {
	topic := topicForMessage(msg)

	eventChan := handler.getEventChannel(client.id)
	if eventChan == nil {
		handler.logger.Error().Str("client_id", client.id).Msg("No event channel found for client")
		return shared.ErrClientEventChannelNotFound
	}

	if err := handler.broadcaster.Subscribe(context.Background(), topic, client.id, eventChan); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.id).Str("topic", topic).Msg("Failed to subscribe")
		return err
	}

	response := NewServerMessage(MessageTypeMarketplaceUpdate)
	response.ItemID = msg.ItemID
	response.Data["status"] = "subscribed"
	response.Data["topic"] = topic

	return client.Send(response)
}

func (handler *WsHandler) handleUnsubscribe(client *WsClient, msg *ClientMessage) error {
	topic := topicForMessage(msg)

	if err := handler.broadcaster.Unsubscribe(context.Background(), topic, client.id); err != nil {
		return err
	}

	response := NewServerMessage(MessageTypeMarketplaceUpdate)
	response.ItemID = msg.ItemID
	response.Data["status"] = "unsubscribed"
	response.Data["topic"] = topic

	return client.Send(response)
}

func (handler *WsHandler) handleRegisterUser(client *WsClient, msg *ClientMessage) error {
	userType, _ := msg.Data["user_type"].(string)
	name, _ := msg.Data["name"].(string)

	registered, err := handler.marketplace.RegisterUser(context.Background(), inbound.RegisterUserRequest{
		UserID: client.userID,
		Type:   user.Type(userType),
		Name:   name,
	})
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	response := NewServerMessage(MessageTypeUserRegistered)
	response.Data["user"] = registered

	return client.Send(response)
}

func (handler *WsHandler) handleListItem(client *WsClient, msg *ClientMessage) error {
	name, _ := msg.Data["name"].(string)
	location, _ := msg.Data["location"].(string)
	quantity, _ := msg.Data["quantity"].(float64)
	duration, _ := msg.Data["duration_hours"].(float64)
	price, _ := msg.Data["price"].(float64)

	listed, err := handler.marketplace.ListItem(context.Background(), inbound.ListItemRequest{
		SupplierID:    client.userID,
		Name:          name,
		Quantity:      int64(quantity),
		DurationHours: int64(duration),
		Price:         int64(price),
		Location:      location,
	})
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	return client.Send(handler.createItemResponse(listed, MessageTypeItemListed))
}

func (handler *WsHandler) handleReserveItem(client *WsClient, msg *ClientMessage) error {
	paidAmount, _ := msg.Data["paid_amount"].(float64)

	reserved, err := handler.marketplace.ReserveItem(context.Background(), inbound.ReserveItemRequest{
		ItemID:      *msg.ItemID,
		RecipientID: client.userID,
		PaidAmount:  int64(paidAmount),
	})
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), msg.ItemID))
	}

	return client.Send(handler.createItemResponse(reserved, MessageTypeItemReserved))
}

func (handler *WsHandler) handleConfirmCollection(client *WsClient, msg *ClientMessage) error {
	collected, err := handler.marketplace.ConfirmCollection(context.Background(), inbound.ConfirmCollectionRequest{
		ItemID:   *msg.ItemID,
		CallerID: client.userID,
	})
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), msg.ItemID))
	}

	return client.Send(handler.createItemResponse(collected, MessageTypeItemCollected))
}

func (handler *WsHandler) handleMarkExpired(client *WsClient, msg *ClientMessage) error {
	expired, err := handler.marketplace.MarkExpired(context.Background(), inbound.MarkExpiredRequest{
		ItemID:   *msg.ItemID,
		CallerID: client.userID,
	})
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), msg.ItemID))
	}

	return client.Send(handler.createItemResponse(expired, MessageTypeMarketplaceUpdate))
}

func (handler *WsHandler) handleGetItem(client *WsClient, msg *ClientMessage) error {
	found, err := handler.marketplace.GetItem(context.Background(), *msg.ItemID)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), msg.ItemID))
	}

	response := handler.createItemResponse(found, MessageTypeMarketplaceUpdate)

	reservable, err := handler.marketplace.IsReservable(context.Background(), *msg.ItemID)
	if err == nil {
		response.Data["reservable"] = reservable
	}

	return client.Send(response)
}

func (handler *WsHandler) handleGetUser(client *WsClient, msg *ClientMessage) error {
	found, err := handler.marketplace.GetUser(context.Background(), client.userID)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	response := NewServerMessage(MessageTypeMarketplaceUpdate)
	response.Data["user"] = found

	return client.Send(response)
}

func (handler *WsHandler) handleGetStats(client *WsClient, msg *ClientMessage) error {
	ctx := context.Background()

	stats, err := handler.marketplace.GetStats(ctx)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	available, err := handler.marketplace.CountAvailableItems(ctx)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error(), nil))
	}

	response := NewServerMessage(MessageTypeMarketplaceUpdate)
	response.Data["stats"] = stats
	response.Data["available_items"] = available

	return client.Send(response)
}

func (handler *WsHandler) createItemResponse(it *item.Item, msgType MessageType) *ServerMessage {
	response := NewServerMessage(msgType)
	response.ItemID = &it.ID

	response.Data["item_id"] = it.ID
	response.Data["name"] = it.Name
	response.Data["location"] = it.Location
	response.Data["supplier"] = it.Supplier
	if it.Recipient != nil {
		response.Data["recipient"] = *it.Recipient
	}
	response.Data["quantity"] = it.Quantity
	response.Data["price"] = it.Price
	response.Data["expiry_time"] = it.ExpiryTime.Format(time.RFC3339)
	response.Data["status"] = it.Status

	return response
}
