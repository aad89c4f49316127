package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"minibizz/planning/internal/auth"
)

// NewServer builds a gRPC server exposing the scheduling service together
// with the standard health and reflection services. Scheduling calls go
// through OwnerInterceptor ahead of any interceptor passed in opts.
func NewServer(api SchedulingAPI, authCfg auth.Config, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(OwnerInterceptor(authCfg))}, opts...)
	s := grpc.NewServer(opts...)
	RegisterSchedulingServer(s, api)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	reflection.Register(describedServices{s})
	return s, hs
}

// describedServices hides services without protobuf descriptors from
// reflection. The scheduling service travels as JSON, so listing it would
// send clients asking for its file descriptor into a NotFound.
type describedServices struct {
	*grpc.Server
}

func (d describedServices) GetServiceInfo() map[string]grpc.ServiceInfo {
	info := d.Server.GetServiceInfo()
	delete(info, ServiceName)
	return info
}
