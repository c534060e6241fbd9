package chat

import "encoding/json"

// InboundPayload mirrors the provider's webhook envelope (spec.md §6.1):
//
//	{ "entry": [ { "changes": [ { "field": "messages",
//	  "value": { "messages": [ { "from": "<handle>", "text": { "body": "<utf-8>" } } ] } } ] } ] }
type InboundPayload struct {
	Entry []struct {
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// InboundMessage is one flattened (handle, text) pair extracted from a
// webhook payload.
type InboundMessage struct {
	Handle string
	Text   string
}

// ParseInbound flattens the nested webhook envelope into a slice of
// messages, ignoring change entries whose field isn't "messages" (e.g.
// delivery-status callbacks).
func ParseInbound(body []byte) ([]InboundMessage, error) {
	var payload InboundPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	var messages []InboundMessage
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, m := range change.Value.Messages {
				if m.From == "" {
					continue
				}
				messages = append(messages, InboundMessage{Handle: m.From, Text: m.Text.Body})
			}
		}
	}
	return messages, nil
}
