package grpc

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/simaogato/fundwise-backend/internal/adapter/dto"
	"github.com/simaogato/fundwise-backend/internal/domain"
	"github.com/simaogato/fundwise-backend/internal/usecase/comparison"
	"github.com/simaogato/fundwise-backend/internal/usecase/dashboard"
	"github.com/simaogato/fundwise-backend/internal/usecase/forecast"
	"github.com/simaogato/fundwise-backend/internal/usecase/investment"
)

const testToken = "test-token-123"

type registryStub map[domain.Horizon]domain.Predictor

func (r registryStub) Predictor(h domain.Horizon) (domain.Predictor, bool) {
	p, ok := r[h]
	return p, ok
}

func constant(v float64) domain.Predictor {
	return domain.PredictorFunc(func([]float64) (float64, error) { return v, nil })
}

func testFund(name, amc string, category domain.Category, risk int, sharpe, ret float64) *domain.Fund {
	return &domain.Fund{
		SchemeName:   name,
		AMCName:      amc,
		Category:     category,
		Return1Yr:    ret,
		Return3Yr:    ret,
		Return5Yr:    ret,
		RiskLevel:    risk,
		Rating:       4,
		ExpenseRatio: 0.7,
		FundSize:     500,
		FundAge:      5,
		Sharpe:       sharpe,
	}
}

// startServer serves the FundAdvisorService over an in-memory listener
func startServer(t *testing.T) *Client {
	t.Helper()

	catalog, err := domain.NewCatalog([]*domain.Fund{
		testFund("Fund X", "AMC X", domain.CategoryEquity, 4, 1.2, 11),
		testFund("Equity Two", "AMC A", domain.CategoryEquity, 3, 1.6, 13),
		testFund("Hybrid One", "AMC B", domain.CategoryHybrid, 3, 1.0, 9),
		testFund("Debt One", "AMC C", domain.CategoryDebt, 2, 0.8, 7),
	})
	require.NoError(t, err)

	logger := testLogger()
	models := registryStub{
		domain.Horizon1Y: constant(9.0),
		domain.Horizon3Y: constant(12.0),
		domain.Horizon5Y: constant(10.0),
	}
	forecastService := forecast.NewForecastService(catalog, models, 0, logger)
	srv := NewServer(
		investment.NewInvestmentService(catalog, investment.DefaultOptions(), logger),
		forecastService,
		comparison.NewComparisonService(catalog, forecastService, logger),
		dashboard.NewDashboardService(catalog),
		logger,
	)

	lis := bufconn.Listen(1 << 20)
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger),
		AuthInterceptor(testToken),
	))
	RegisterFundAdvisorServer(grpcServer, srv)
	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn)
}

func authorized() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", testToken)
}

func TestServer_GenerateInvestmentPlan(t *testing.T) {
	client := startServer(t)

	plan, err := client.GenerateInvestmentPlan(authorized(), &dto.RecommendRequest{
		Amount:        100000,
		Tenure:        5,
		RiskTolerance: "moderate",
	})

	require.NoError(t, err)
	assert.Equal(t, "success", plan.Status)
	require.Len(t, plan.Recommendations, 3)
	assert.InDelta(t, 100000.0, plan.Summary.TotalAllocated, 0.001)
}

func TestServer_GenerateInvestmentPlan_AMCPreference(t *testing.T) {
	client := startServer(t)

	plan, err := client.GenerateInvestmentPlan(authorized(), &dto.RecommendRequest{
		AMCName:       "AMC A",
		Amount:        100000,
		Tenure:        5,
		RiskTolerance: "moderate",
	})

	require.NoError(t, err)
	require.NotEmpty(t, plan.Recommendations)
	for _, r := range plan.Recommendations {
		assert.Equal(t, "AMC A", r.AMCName)
	}
}

func TestServer_Forecast(t *testing.T) {
	client := startServer(t)
	horizon := 3

	result, err := client.Forecast(authorized(), &dto.ForecastRequest{FundName: "Fund X", Horizon: &horizon})

	require.NoError(t, err)
	require.NotNil(t, result.Predictions["3_year"].PredictedReturn)
	assert.InDelta(t, 12.0, *result.Predictions["3_year"].PredictedReturn, 1e-9)
	assert.Equal(t, 3, result.ForecastHorizon)
}

func TestServer_CompareAndList(t *testing.T) {
	client := startServer(t)

	cmp, err := client.CompareFunds(authorized(), &dto.CompareRequest{FundNames: []string{"Fund X", "Debt One"}})
	require.NoError(t, err)
	assert.Equal(t, 2, cmp.TotalFunds)

	list, err := client.ListFunds(authorized(), &dto.FundFilterRequest{Category: "Equity"})
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalFound)
}

func TestServer_ErrorCodes(t *testing.T) {
	client := startServer(t)

	tests := []struct {
		name         string
		call         func(ctx context.Context) error
		ctx          context.Context
		expectedCode codes.Code
	}{
		{
			name: "invalid amount",
			ctx:  authorized(),
			call: func(ctx context.Context) error {
				_, err := client.GenerateInvestmentPlan(ctx, &dto.RecommendRequest{Amount: -5, Tenure: 5})
				return err
			},
			expectedCode: codes.InvalidArgument,
		},
		{
			name: "unknown fund",
			ctx:  authorized(),
			call: func(ctx context.Context) error {
				_, err := client.Forecast(ctx, &dto.ForecastRequest{FundName: "Ghost"})
				return err
			},
			expectedCode: codes.NotFound,
		},
		{
			name: "missing fund name",
			ctx:  authorized(),
			call: func(ctx context.Context) error {
				_, err := client.Forecast(ctx, &dto.ForecastRequest{})
				return err
			},
			expectedCode: codes.InvalidArgument,
		},
		{
			name: "empty comparison",
			ctx:  authorized(),
			call: func(ctx context.Context) error {
				_, err := client.CompareFunds(ctx, &dto.CompareRequest{})
				return err
			},
			expectedCode: codes.InvalidArgument,
		},
		{
			name: "missing token",
			ctx:  context.Background(),
			call: func(ctx context.Context) error {
				_, err := client.ListFunds(ctx, &dto.FundFilterRequest{})
				return err
			},
			expectedCode: codes.Unauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call(tt.ctx)

			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, status.Code(err))
		})
	}
}

func TestJSONCodec(t *testing.T) {
	codec := jsonCodec{}
	assert.Equal(t, CodecName, codec.Name())

	data, err := codec.Marshal(&dto.ForecastRequest{FundName: "Fund X"})
	require.NoError(t, err)

	var out dto.ForecastRequest
	require.NoError(t, codec.Unmarshal(data, &out))
	assert.Equal(t, "Fund X", out.FundName)
	assert.Equal(t, dto.DefaultForecastHorizon, out.HorizonOrDefault())

	assert.Error(t, codec.Unmarshal([]byte("{"), &out))
}

// testLogger only emits errors, keeping test output quiet
func testLogger() arbor.ILogger {
	return arbor.NewLogger().WithLevelFromString("error")
}
