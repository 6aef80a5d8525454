package collector

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/samber/lo"

	"github.com/OldStager01/scaling-advisor/internal/logger"
)

// CloudWatchBackend reads series with a single GetMetricData request,
// following pagination, with samples in descending timestamp order.
type CloudWatchBackend struct {
	client      cloudwatch.GetMetricDataAPIClient
	credentials aws.CredentialsProvider
}

type CloudWatchConfig struct {
	Region   string
	Endpoint string
	// Client replaces the SDK client, mainly for tests.
	Client cloudwatch.GetMetricDataAPIClient
}

func NewCloudWatchBackend(ctx context.Context, cfg CloudWatchConfig) (*CloudWatchBackend, error) {
	if cfg.Client != nil {
		return &CloudWatchBackend{client: cfg.Client}, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := cloudwatch.NewFromConfig(awsCfg, func(o *cloudwatch.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &CloudWatchBackend{client: client, credentials: awsCfg.Credentials}, nil
}

func (b *CloudWatchBackend) Name() string { return "cloudwatch" }

func (b *CloudWatchBackend) Query(ctx context.Context, series []SeriesSpec, tr TimeRange) (Samples, error) {
	input := &cloudwatch.GetMetricDataInput{
		MetricDataQueries: lo.Map(series, func(s SeriesSpec, _ int) types.MetricDataQuery {
			return metricDataQuery(s)
		}),
		StartTime: aws.Time(tr.Start),
		EndTime:   aws.Time(tr.End),
		ScanBy:    types.ScanByTimestampDescending,
	}

	out := make(Samples, len(series))
	pages := cloudwatch.NewGetMetricDataPaginator(b.client, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
		}
		for _, result := range page.MetricDataResults {
			id := aws.ToString(result.Id)
			out[id] = append(out[id], result.Values...)
		}
		for _, msg := range page.Messages {
			logger.FromContext(ctx).
				WithField("code", aws.ToString(msg.Code)).
				Warnf("CloudWatch: %s", aws.ToString(msg.Value))
		}
	}

	return out, nil
}

// HealthCheck confirms credentials can be resolved. It does not call
// CloudWatch itself.
func (b *CloudWatchBackend) HealthCheck(ctx context.Context) error {
	if b.credentials == nil {
		return nil
	}
	if _, err := b.credentials.Retrieve(ctx); err != nil {
		return fmt.Errorf("resolve aws credentials: %w", err)
	}
	return nil
}

func metricDataQuery(s SeriesSpec) types.MetricDataQuery {
	period := s.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	stat := s.Stat
	if stat == "" {
		stat = "Average"
	}

	dims := slices.Clone(s.Dimensions)
	slices.SortFunc(dims, func(a, b Dimension) int { return strings.Compare(a.Name, b.Name) })

	return types.MetricDataQuery{
		Id: aws.String(s.ID),
		MetricStat: &types.MetricStat{
			Metric: &types.Metric{
				Namespace:  aws.String(s.Namespace),
				MetricName: aws.String(s.MetricName),
				Dimensions: lo.Map(dims, func(d Dimension, _ int) types.Dimension {
					return types.Dimension{Name: aws.String(d.Name), Value: aws.String(d.Value)}
				}),
			},
			Period: aws.Int32(int32(period.Seconds())),
			Stat:   aws.String(stat),
		},
		ReturnData: aws.Bool(true),
	}
}
