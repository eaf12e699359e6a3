// Package grpcserver exposes availability queries over gRPC. Requests and
// responses are google.protobuf.Struct values, so no generated stubs are
// needed on either side.
package grpcserver

import (
	"context"
	"errors"
	"time"

	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/booking"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "roombook.availability.v1.AvailabilityService"

	ComputeAvailabilitiesMethod = "/" + ServiceName + "/ComputeAvailabilities"
	CheckRoomAvailabilityMethod = "/" + ServiceName + "/CheckRoomAvailability"
)

type AvailabilityServer interface {
	ComputeAvailabilities(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckRoomAvailability(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Availability is the part of booking.Service the server needs.
type Availability interface {
	ComputeAvailabilities(ctx context.Context, q booking.AvailabilityQuery) ([]availability.RoomFreeSlots, error)
	CheckAvailability(ctx context.Context, roomCode, rawStart string, durationHours int) (bool, error)
}

type server struct {
	svc Availability
}

func Register(s grpc.ServiceRegistrar, svc Availability) {
	s.RegisterService(&serviceDesc, &server{svc: svc})
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AvailabilityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ComputeAvailabilities", Handler: unaryHandler(ComputeAvailabilitiesMethod, AvailabilityServer.ComputeAvailabilities)},
		{MethodName: "CheckRoomAvailability", Handler: unaryHandler(CheckRoomAvailabilityMethod, AvailabilityServer.CheckRoomAvailability)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "roombook/availability/v1/availability.proto",
}

func unaryHandler(fullMethod string, call func(AvailabilityServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AvailabilityServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(AvailabilityServer), ctx, req.(*structpb.Struct))
		})
	}
}

func (s *server) ComputeAvailabilities(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	q := booking.AvailabilityQuery{
		TargetDayStart: stringField(fields, "target_day_start"),
		RoomCode:       stringField(fields, "room_code"),
	}
	if q.TargetDayStart == "" {
		return nil, status.Error(codes.InvalidArgument, "target_day_start required")
	}
	if v, ok := fields["floor"]; ok {
		floor, err := intValue(v)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "floor: "+err.Error())
		}
		q.Floor = &floor
	}

	rooms, err := s.svc.ComputeAvailabilities(ctx, q)
	if err != nil {
		return nil, toStatus(err)
	}

	items := make([]any, 0, len(rooms))
	for _, r := range rooms {
		slots := make([]any, 0, len(r.FreeSlots))
		for _, fs := range r.FreeSlots {
			slots = append(slots, map[string]any{
				"start_datetime":    fs.Start.Format(time.RFC3339),
				"duration_in_hours": fs.DurationInHours,
			})
		}
		items = append(items, map[string]any{"room_code": r.RoomCode, "free_slots": slots})
	}
	out, err := structpb.NewStruct(map[string]any{"rooms": items})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *server) CheckRoomAvailability(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	roomCode := stringField(fields, "room_code")
	start := stringField(fields, "start_datetime")
	if roomCode == "" || start == "" {
		return nil, status.Error(codes.InvalidArgument, "room_code and start_datetime required")
	}
	duration, err := intValue(fields["duration_in_hours"])
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "duration_in_hours: "+err.Error())
	}

	ok, err := s.svc.CheckAvailability(ctx, roomCode, start, duration)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := structpb.NewStruct(map[string]any{"available": ok})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, booking.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, availability.ErrInvalidTimeZone):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func stringField(fields map[string]*structpb.Value, key string) string {
	if v, ok := fields[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func intValue(v *structpb.Value) (int, error) {
	if v == nil {
		return 0, errors.New("required")
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, errors.New("must be a number")
	}
	if n.NumberValue != float64(int(n.NumberValue)) {
		return 0, errors.New("must be a whole number")
	}
	return int(n.NumberValue), nil
}
