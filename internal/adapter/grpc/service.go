package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/simaogato/fundwise-backend/internal/adapter/dto"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "fundwise.v1.FundAdvisorService"

// Full method names, as seen by interceptors
const (
	MethodGenerateInvestmentPlan = "/" + ServiceName + "/GenerateInvestmentPlan"
	MethodForecast               = "/" + ServiceName + "/Forecast"
	MethodCompareFunds           = "/" + ServiceName + "/CompareFunds"
	MethodListFunds              = "/" + ServiceName + "/ListFunds"
)

// FundAdvisorServer is the server API for the FundAdvisorService
type FundAdvisorServer interface {
	GenerateInvestmentPlan(context.Context, *dto.RecommendRequest) (*dto.Plan, error)
	Forecast(context.Context, *dto.ForecastRequest) (*dto.Forecast, error)
	CompareFunds(context.Context, *dto.CompareRequest) (*dto.Comparison, error)
	ListFunds(context.Context, *dto.FundFilterRequest) (*dto.FundList, error)
}

// RegisterFundAdvisorServer registers the service on a gRPC server
func RegisterFundAdvisorServer(s grpc.ServiceRegistrar, srv FundAdvisorServer) {
	s.RegisterService(&fundAdvisorServiceDesc, srv)
}

var fundAdvisorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FundAdvisorServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GenerateInvestmentPlan", FundAdvisorServer.GenerateInvestmentPlan),
		unary("Forecast", FundAdvisorServer.Forecast),
		unary("CompareFunds", FundAdvisorServer.CompareFunds),
		unary("ListFunds", FundAdvisorServer.ListFunds),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fundwise/v1/fund_advisor.json",
}

// unary builds the method descriptor the way generated code does, for any request/response pair
func unary[Req, Resp any](name string, call func(FundAdvisorServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(FundAdvisorServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(FundAdvisorServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client is a FundAdvisorService client speaking the JSON codec
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an established connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) GenerateInvestmentPlan(ctx context.Context, in *dto.RecommendRequest, opts ...grpc.CallOption) (*dto.Plan, error) {
	out := new(dto.Plan)
	if err := c.invoke(ctx, MethodGenerateInvestmentPlan, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Forecast(ctx context.Context, in *dto.ForecastRequest, opts ...grpc.CallOption) (*dto.Forecast, error) {
	out := new(dto.Forecast)
	if err := c.invoke(ctx, MethodForecast, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CompareFunds(ctx context.Context, in *dto.CompareRequest, opts ...grpc.CallOption) (*dto.Comparison, error) {
	out := new(dto.Comparison)
	if err := c.invoke(ctx, MethodCompareFunds, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListFunds(ctx context.Context, in *dto.FundFilterRequest, opts ...grpc.CallOption) (*dto.FundList, error) {
	out := new(dto.FundList)
	if err := c.invoke(ctx, MethodListFunds, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.conn.Invoke(ctx, method, in, out, opts...)
}
