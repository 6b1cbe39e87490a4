package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/example/fulfillment/pkg/config"
	clientv3 "go.etcd.io/etcd/client/v3"
)

type ServiceRegistry struct {
	client *clientv3.Client
	config *config.EtcdConfig
}

type ServiceInstance struct {
	Name string
	Host string
	Port int
}

func NewServiceRegistry(cfg *config.EtcdConfig) (*ServiceRegistry, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	return &ServiceRegistry{client: cli, config: cfg}, nil
}

// Register publishes the instance under a 30s lease kept alive for the
// process lifetime.
func (sr *ServiceRegistry) Register(ctx context.Context, instance *ServiceInstance) error {
	key := sr.key(instance)
	value := fmt.Sprintf("%s:%d", instance.Host, instance.Port)

	lease, err := sr.client.Grant(ctx, 30)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	if _, err = sr.client.Put(ctx, key, value, clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	ch, kaerr := sr.client.KeepAlive(ctx, lease.ID)
	if kaerr != nil {
		return fmt.Errorf("failed to keep alive: %w", kaerr)
	}

	go func() {
		for range ch {
		}
	}()

	return nil
}

func (sr *ServiceRegistry) Deregister(ctx context.Context, instance *ServiceInstance) error {
	if _, err := sr.client.Delete(ctx, sr.key(instance)); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}
	return nil
}

func (sr *ServiceRegistry) Close() error {
	return sr.client.Close()
}

func (sr *ServiceRegistry) key(instance *ServiceInstance) string {
	return fmt.Sprintf("%s%s/%s:%d", sr.config.Prefix, instance.Name, instance.Host, instance.Port)
}
