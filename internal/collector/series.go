package collector

import "time"

const DefaultPeriod = 5 * time.Minute

// DefaultSeries is the workload telemetry read when configuration does not
// override it: pod utilization from Container Insights, API gateway traffic
// and latency, and the summarizer function's invocations and duration.
func DefaultSeries(cluster, namespace string) []SeriesSpec {
	podDims := []Dimension{
		{Name: "ClusterName", Value: cluster},
		{Name: "Namespace", Value: namespace},
	}
	apiDims := []Dimension{{Name: "ApiName", Value: "claims-api"}}
	lambdaDims := []Dimension{{Name: "FunctionName", Value: "claims-summarizer"}}

	return []SeriesSpec{
		{ID: "cpu_util", Namespace: "ContainerInsights", MetricName: "pod_cpu_utilization", Dimensions: podDims, Period: DefaultPeriod, Stat: "Average"},
		{ID: "mem_util", Namespace: "ContainerInsights", MetricName: "pod_memory_utilization", Dimensions: podDims, Period: DefaultPeriod, Stat: "Average"},
		{ID: "api_requests", Namespace: "AWS/ApiGateway", MetricName: "Count", Dimensions: apiDims, Period: DefaultPeriod, Stat: "Sum"},
		{ID: "api_latency", Namespace: "AWS/ApiGateway", MetricName: "Latency", Dimensions: apiDims, Period: DefaultPeriod, Stat: "Average"},
		{ID: "lambda_invocations", Namespace: "AWS/Lambda", MetricName: "Invocations", Dimensions: lambdaDims, Period: DefaultPeriod, Stat: "Sum"},
		{ID: "lambda_duration", Namespace: "AWS/Lambda", MetricName: "Duration", Dimensions: lambdaDims, Period: DefaultPeriod, Stat: "Average"},
	}
}
