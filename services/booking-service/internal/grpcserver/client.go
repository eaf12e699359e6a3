package grpcserver

import (
	"context"
	"errors"
	"time"

	"github.com/md-rashed-zaman/roombook/libs/grpcx"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls AvailabilityService on a remote booking service.
type Client struct {
	conn *grpc.ClientConn
}

func Dial(ctx context.Context, addr string) (*Client, error) {
	conn, err := grpcx.Dial(ctx, addr, grpcx.DialOptions{Timeout: 5 * time.Second, Block: true})
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

// CheckRoomAvailability reports whether the interval is free. start is sent
// as given; a value without an offset is read in the room's zone.
func (c *Client) CheckRoomAvailability(ctx context.Context, roomCode, start string, durationHours int) (bool, error) {
	req, err := structpb.NewStruct(map[string]any{
		"room_code":         roomCode,
		"start_datetime":    start,
		"duration_in_hours": durationHours,
	})
	if err != nil {
		return false, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, CheckRoomAvailabilityMethod, req, out); err != nil {
		return false, err
	}
	v, ok := out.GetFields()["available"]
	if !ok {
		return false, errors.New("availability response missing available")
	}
	return v.GetBoolValue(), nil
}

type FreeSlot struct {
	StartDateTime   time.Time
	DurationInHours int
}

type RoomAvailability struct {
	RoomCode  string
	FreeSlots []FreeSlot
}

// ComputeAvailabilities fetches free slots for the day starting at
// targetDayStart. An empty roomCode and nil floor select every room.
func (c *Client) ComputeAvailabilities(ctx context.Context, targetDayStart, roomCode string, floor *int) ([]RoomAvailability, error) {
	fields := map[string]any{"target_day_start": targetDayStart}
	if roomCode != "" {
		fields["room_code"] = roomCode
	}
	if floor != nil {
		fields["floor"] = *floor
	}
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, ComputeAvailabilitiesMethod, req, out); err != nil {
		return nil, err
	}

	var rooms []RoomAvailability
	for _, rv := range out.GetFields()["rooms"].GetListValue().GetValues() {
		rf := rv.GetStructValue().GetFields()
		room := RoomAvailability{RoomCode: rf["room_code"].GetStringValue()}
		for _, sv := range rf["free_slots"].GetListValue().GetValues() {
			sf := sv.GetStructValue().GetFields()
			start, err := time.Parse(time.RFC3339, sf["start_datetime"].GetStringValue())
			if err != nil {
				return nil, err
			}
			room.FreeSlots = append(room.FreeSlots, FreeSlot{
				StartDateTime:   start,
				DurationInHours: int(sf["duration_in_hours"].GetNumberValue()),
			})
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}
