package store

var (
	KeyPrefix              = keyPrefix
	IsS3NotFound           = isS3NotFound
	IsS3PreconditionFailed = isS3PreconditionFailed
)
