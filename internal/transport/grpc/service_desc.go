package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "planning.v1.Scheduling"

// SchedulingAPI is the method set served under ServiceName.
type SchedulingAPI interface {
	SaveAppointment(context.Context, *SaveAppointmentRequest) (*SaveAppointmentResponse, error)
	ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	DeleteAppointment(context.Context, *DeleteAppointmentRequest) (*DeleteAppointmentResponse, error)
	SetAppointmentStatus(context.Context, *SetAppointmentStatusRequest) (*SetAppointmentStatusResponse, error)
	SaveBlock(context.Context, *SaveBlockRequest) (*SaveBlockResponse, error)
	ListBlocks(context.Context, *ListBlocksRequest) (*ListBlocksResponse, error)
	DeleteBlock(context.Context, *DeleteBlockRequest) (*DeleteBlockResponse, error)
	GenerateDeadlines(context.Context, *GenerateDeadlinesRequest) (*GenerateDeadlinesResponse, error)
	FindFreeSlots(context.Context, *FindFreeSlotsRequest) (*FindFreeSlotsResponse, error)
	Agenda(context.Context, *AgendaRequest) (*AgendaResponse, error)
}

var _ SchedulingAPI = (*SchedulingServer)(nil)

func unary[Req, Resp any](method string, call func(SchedulingAPI, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SchedulingAPI), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(SchedulingAPI), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SchedulingAPI)(nil),
	Methods: []grpc.MethodDesc{
		unary("SaveAppointment", SchedulingAPI.SaveAppointment),
		unary("ListAppointments", SchedulingAPI.ListAppointments),
		unary("DeleteAppointment", SchedulingAPI.DeleteAppointment),
		unary("SetAppointmentStatus", SchedulingAPI.SetAppointmentStatus),
		unary("SaveBlock", SchedulingAPI.SaveBlock),
		unary("ListBlocks", SchedulingAPI.ListBlocks),
		unary("DeleteBlock", SchedulingAPI.DeleteBlock),
		unary("GenerateDeadlines", SchedulingAPI.GenerateDeadlines),
		unary("FindFreeSlots", SchedulingAPI.FindFreeSlots),
		unary("Agenda", SchedulingAPI.Agenda),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "planning/v1/scheduling",
}

func RegisterSchedulingServer(r grpc.ServiceRegistrar, srv SchedulingAPI) {
	r.RegisterService(&serviceDesc, srv)
}

// Client calls the scheduling service with the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, req any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SaveAppointment(ctx context.Context, in *SaveAppointmentRequest, opts ...grpc.CallOption) (*SaveAppointmentResponse, error) {
	return invoke[SaveAppointmentResponse](ctx, c, "SaveAppointment", in, opts)
}

func (c *Client) ListAppointments(ctx context.Context, in *ListAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c, "ListAppointments", in, opts)
}

func (c *Client) DeleteAppointment(ctx context.Context, in *DeleteAppointmentRequest, opts ...grpc.CallOption) (*DeleteAppointmentResponse, error) {
	return invoke[DeleteAppointmentResponse](ctx, c, "DeleteAppointment", in, opts)
}

func (c *Client) SetAppointmentStatus(ctx context.Context, in *SetAppointmentStatusRequest, opts ...grpc.CallOption) (*SetAppointmentStatusResponse, error) {
	return invoke[SetAppointmentStatusResponse](ctx, c, "SetAppointmentStatus", in, opts)
}

func (c *Client) SaveBlock(ctx context.Context, in *SaveBlockRequest, opts ...grpc.CallOption) (*SaveBlockResponse, error) {
	return invoke[SaveBlockResponse](ctx, c, "SaveBlock", in, opts)
}

func (c *Client) ListBlocks(ctx context.Context, in *ListBlocksRequest, opts ...grpc.CallOption) (*ListBlocksResponse, error) {
	return invoke[ListBlocksResponse](ctx, c, "ListBlocks", in, opts)
}

func (c *Client) DeleteBlock(ctx context.Context, in *DeleteBlockRequest, opts ...grpc.CallOption) (*DeleteBlockResponse, error) {
	return invoke[DeleteBlockResponse](ctx, c, "DeleteBlock", in, opts)
}

func (c *Client) GenerateDeadlines(ctx context.Context, in *GenerateDeadlinesRequest, opts ...grpc.CallOption) (*GenerateDeadlinesResponse, error) {
	return invoke[GenerateDeadlinesResponse](ctx, c, "GenerateDeadlines", in, opts)
}

func (c *Client) FindFreeSlots(ctx context.Context, in *FindFreeSlotsRequest, opts ...grpc.CallOption) (*FindFreeSlotsResponse, error) {
	return invoke[FindFreeSlotsResponse](ctx, c, "FindFreeSlots", in, opts)
}

func (c *Client) Agenda(ctx context.Context, in *AgendaRequest, opts ...grpc.CallOption) (*AgendaResponse, error) {
	return invoke[AgendaResponse](ctx, c, "Agenda", in, opts)
}
