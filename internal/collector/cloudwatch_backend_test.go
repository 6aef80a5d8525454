package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	pages  []*cloudwatch.GetMetricDataOutput
	err    error
	inputs []*cloudwatch.GetMetricDataInput
}

func (f *fakeCloudWatch) GetMetricData(_ context.Context, in *cloudwatch.GetMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[len(f.inputs)-1]
	return page, nil
}

func newFakeBackend(t *testing.T, fake *fakeCloudWatch) *CloudWatchBackend {
	t.Helper()
	b, err := NewCloudWatchBackend(context.Background(), CloudWatchConfig{Client: fake})
	require.NoError(t, err)
	return b
}

func TestCloudWatchBackend_Query(t *testing.T) {
	fake := &fakeCloudWatch{pages: []*cloudwatch.GetMetricDataOutput{
		{
			MetricDataResults: []types.MetricDataResult{
				{Id: aws.String("cpu_util"), Values: []float64{91, 88}},
				{Id: aws.String("mem_util"), Values: []float64{40}},
			},
			NextToken: aws.String("page-2"),
		},
		{
			MetricDataResults: []types.MetricDataResult{
				{Id: aws.String("cpu_util"), Values: []float64{70}},
			},
		},
	}}
	b := newFakeBackend(t, fake)

	series := DefaultSeries("introspect2-eks", "default")[:2]
	tr := TimeRange{Start: testNow.Add(-30 * time.Minute), End: testNow}

	samples, err := b.Query(context.Background(), series, tr)
	require.NoError(t, err)

	assert.Equal(t, []float64{91, 88, 70}, samples["cpu_util"])
	assert.Equal(t, []float64{40}, samples["mem_util"])

	require.Len(t, fake.inputs, 2)
	in := fake.inputs[0]
	assert.Equal(t, types.ScanByTimestampDescending, in.ScanBy)
	assert.Equal(t, tr.Start, aws.ToTime(in.StartTime))
	assert.Equal(t, tr.End, aws.ToTime(in.EndTime))
	assert.Nil(t, in.NextToken)
	assert.Equal(t, "page-2", aws.ToString(fake.inputs[1].NextToken))

	require.Len(t, in.MetricDataQueries, 2)
	q := in.MetricDataQueries[0]
	assert.Equal(t, "cpu_util", aws.ToString(q.Id))
	assert.Equal(t, "ContainerInsights", aws.ToString(q.MetricStat.Metric.Namespace))
	assert.Equal(t, "pod_cpu_utilization", aws.ToString(q.MetricStat.Metric.MetricName))
	assert.Equal(t, int32(300), aws.ToInt32(q.MetricStat.Period))
	assert.Equal(t, "Average", aws.ToString(q.MetricStat.Stat))
	require.Len(t, q.MetricStat.Metric.Dimensions, 2)
	assert.Equal(t, "ClusterName", aws.ToString(q.MetricStat.Metric.Dimensions[0].Name))
	assert.Equal(t, "introspect2-eks", aws.ToString(q.MetricStat.Metric.Dimensions[0].Value))
}

func TestCloudWatchBackend_QueryError(t *testing.T) {
	fake := &fakeCloudWatch{err: errors.New("throttled")}
	b := newFakeBackend(t, fake)

	_, err := b.Query(context.Background(), DefaultSeries("c", "ns"), TimeRange{Start: testNow.Add(-time.Hour), End: testNow})

	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.Contains(t, err.Error(), "throttled")
}

func TestMetricDataQuery_Defaults(t *testing.T) {
	q := metricDataQuery(SeriesSpec{ID: "x", Namespace: "ns", MetricName: "m"})

	assert.Equal(t, int32(300), aws.ToInt32(q.MetricStat.Period))
	assert.Equal(t, "Average", aws.ToString(q.MetricStat.Stat))
	assert.True(t, aws.ToBool(q.ReturnData))
	assert.Empty(t, q.MetricStat.Metric.Dimensions)
}

func TestCloudWatchBackend_HealthCheckWithInjectedClient(t *testing.T) {
	b := newFakeBackend(t, &fakeCloudWatch{})
	assert.NoError(t, b.HealthCheck(context.Background()))
	assert.Equal(t, "cloudwatch", b.Name())
}
