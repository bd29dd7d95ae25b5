package http

type ServerConfig struct {
	Port int
}

type RouterConfig struct {
	TimeoutMS          int
	RequestPerSecLimit int
	DisableCors        bool
	AllowedOrigins     []string
	AllowedMethods     []string
	AllowedHeaders     []string
	AllowCredentials   bool
}
