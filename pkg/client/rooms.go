package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"slotboard/pkg/heatmap"
	"slotboard/pkg/model"
)

type RoomClient struct {
	httpClient *HttpClient
}

func NewRoomClient(baseUrl string) *RoomClient {
	return &RoomClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *RoomClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/rooms", body)
}

func (c *RoomClient) Get(id string) (*Response, error) {
	path := "/api/v1/rooms/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *RoomClient) Delete(id string) (*Response, error) {
	path := "/api/v1/rooms/" + url.PathEscape(id)
	return c.httpClient.DELETE(path)
}

func (c *RoomClient) HeatMap(id string) (*Response, error) {
	path := "/api/v1/rooms/" + url.PathEscape(id) + "/heatmap"
	return c.httpClient.GET(path)
}

func (c *RoomClient) CreateRaw(rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw("/api/v1/rooms", rawBody)
}

func (c *RoomClient) DecodeRoom(resp *Response) (*model.Room, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode room wrapper:\n%s\n%s", resp.Body, err)
	}

	var room model.Room
	if err := json.Unmarshal(wrapper.Data, &room); err != nil {
		return nil, fmt.Errorf("could not decode room json:\n%s\n%s", resp.Body, err)
	}

	return &room, nil
}

// RoomView mirrors the GET response: the room plus its participants.
type RoomView struct {
	Room         *model.Room          `json:"room"`
	Participants []*model.Participant `json:"participants"`
}

func (c *RoomClient) DecodeRoomView(resp *Response) (*RoomView, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode room view wrapper:\n%s\n%s", resp.Body, err)
	}

	var view RoomView
	if err := json.Unmarshal(wrapper.Data, &view); err != nil {
		return nil, fmt.Errorf("could not decode room view json:\n%s\n%s", resp.Body, err)
	}

	return &view, nil
}

func (c *RoomClient) DecodeHeatMap(resp *Response) (*heatmap.Result, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode heat map wrapper:\n%s\n%s", resp.Body, err)
	}

	var result heatmap.Result
	if err := json.Unmarshal(wrapper.Data, &result); err != nil {
		return nil, fmt.Errorf("could not decode heat map json:\n%s\n%s", resp.Body, err)
	}

	return &result, nil
}
