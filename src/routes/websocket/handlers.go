package websocket

import "time"

// routes incoming messages to handlers
func (h *Hub) HandleMessage(client *Client, msg *Message) {
	switch msg.Op {
	case OpHeartbeat:
		h.handleHeartbeat(client, msg)
	default:
		client.SendError(4002, "unknown opcode")
	}
}

func (h *Hub) handleHeartbeat(client *Client, msg *Message) {
	client.Send(&Message{
		Op:    OpHeartbeatAck,
		Nonce: msg.Nonce,
		Data:  HeartbeatPayload{Timestamp: time.Now().UnixMilli()},
	})
}
