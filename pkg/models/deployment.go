package models

import "fmt"

// DeploymentRef identifies the workload whose replica count is managed.
type DeploymentRef struct {
	Cluster   string `json:"cluster"`
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

func (d DeploymentRef) String() string {
	return fmt.Sprintf("%s/%s/%s", d.Cluster, d.Namespace, d.Name)
}

// Key is a storage-safe identifier for the deployment.
func (d DeploymentRef) Key() string {
	return fmt.Sprintf("%s_%s_%s", d.Cluster, d.Namespace, d.Name)
}
