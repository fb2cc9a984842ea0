package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"slotboard/pkg/model"
)

type ParticipantClient struct {
	httpClient *HttpClient
}

func NewParticipantClient(baseUrl string) *ParticipantClient {
	return &ParticipantClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *ParticipantClient) Submit(roomID string, body any) (*Response, error) {
	path := "/api/v1/rooms/" + url.PathEscape(roomID) + "/participants"
	return c.httpClient.POST(path, body)
}

func (c *ParticipantClient) Cancel(roomID string, participantID string) (*Response, error) {
	path := "/api/v1/rooms/" + url.PathEscape(roomID) + "/participants/" + url.PathEscape(participantID)
	return c.httpClient.DELETE(path)
}

func (c *ParticipantClient) SubmitRaw(roomID string, rawBody []byte) (*Response, error) {
	path := "/api/v1/rooms/" + url.PathEscape(roomID) + "/participants"
	return c.httpClient.POSTRaw(path, rawBody)
}

func (c *ParticipantClient) DecodeParticipant(resp *Response) (*model.Participant, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode participant wrapper:\n%s\n%s", resp.Body, err)
	}

	var participant model.Participant
	if err := json.Unmarshal(wrapper.Data, &participant); err != nil {
		return nil, fmt.Errorf("could not decode participant json:\n%s\n%s", resp.Body, err)
	}

	return &participant, nil
}
