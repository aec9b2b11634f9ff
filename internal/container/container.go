// Package container wires the services of eightbin with samber/do.
package container

import (
	"time"

	"github.com/samber/do"
)

// Options are the process-wide settings. humacli exposes every field as a
// flag and as a SERVICE_<NAME> environment variable.
type Options struct {
	Port      int    `default:"8888"    help:"Port to listen on"             short:"p"`
	LogFormat string `default:"console" enum:"console,json"                  help:"Log encoder"`
	LogLevel  string `default:"info"    help:"Minimum log level"`

	SiteBaseURL string `default:"http://localhost:8888" help:"Public bucket website URL returned to clients"`
	Bucket      string `default:"eightbin"              help:"Bucket holding links and files"`

	StoreBackend string `default:"memory" enum:"s3,minio,memory" help:"Object store backend"`
	S3Region     string `default:"us-east-1" help:"S3 region"`
	S3Endpoint   string `help:"S3 endpoint override, e.g. for localstack"`
	S3PathStyle  bool   `help:"Use path-style S3 addressing"`
	S3AccessKey  string `help:"Static S3 access key, default credential chain when empty"`
	S3SecretKey  string `help:"Static S3 secret key"`

	MinioEndpoint  string `default:"localhost:9000" help:"MinIO endpoint"`
	MinioAccessKey string `default:"minioadmin"     help:"MinIO access key"`
	MinioSecretKey string `default:"minioadmin"     help:"MinIO secret key"`
	MinioSSL       bool   `help:"Connect to MinIO over TLS"`

	StoreTimeout      time.Duration `default:"5s"       help:"Timeout of a single object store call"`
	MaxAttempts       int           `default:"16"       help:"Keys probed before a namespace is reported exhausted"`
	ConditionalCreate bool          `help:"Write objects with If-None-Match so racing writers never overwrite"`
	MaxUploadBytes    int64         `default:"10485760" help:"Largest accepted upload in bytes"`

	RedisAddr     string        `help:"Redis address; enables events, shared rate limits and the count cache"`
	CountCacheTTL time.Duration `default:"0s" help:"TTL of cached namespace occupancy, 0 disables"`
	PostgresDSN   string        `help:"Postgres DSN for analytics, events are logged when empty"`

	RateLimitGlobal string `default:"300/1m"       help:"Limits for every request, e.g. 300/1m,5000/1h"`
	RateLimitWrite  string `default:"30/1m,500/1h" help:"Limits for shorten and upload"`
	RateLimitUpload string `help:"Limits replacing the write limits for uploads"`
	TrustedProxies  string `help:"Proxy IPs or CIDRs allowed to set X-Forwarded-For, e.g. 10.0.0.0/8"`
}

// New returns an injector holding every service of the HTTP server.
func New(options *Options) *do.Injector {
	injector := do.New()

	do.ProvideValue(injector, options)
	LoggerPackage(injector)
	MetricsPackage(injector)
	RedisPackage(injector)
	ObjectStorePackage(injector)
	ServicesPackage(injector)
	PublisherPackage(injector)
	RateLimitPackage(injector)
	HealthPackage(injector)
	HTTPPackage(injector)

	return injector
}

// NewConsumer returns an injector holding the analytics consumer group.
func NewConsumer(options *Options) *do.Injector {
	injector := do.New()

	do.ProvideValue(injector, options)
	LoggerPackage(injector)
	RedisPackage(injector)
	PostgresPackage(injector)
	ConsumerGroupPackage(injector)

	return injector
}
