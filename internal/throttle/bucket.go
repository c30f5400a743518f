package throttle

import "time"

// Bucket names. Keep these stable; route declarations reference them.
const (
	BucketBasic   = "basic"   // reads, deletes, identity routes
	BucketPostPut = "postput" // generic writes
	BucketPlace   = "place"   // place creation
	BucketLogin   = "login"   // credential guessing protection
	BucketUpload  = "upload"  // photo uploads
)

// Bucket is a named fixed-window rate limit: at most Limit admitted requests
// per (bucket, client) within Window.
type Bucket struct {
	Name   string
	Window time.Duration
	Limit  int
}

// DefaultBuckets is the production policy. Limits are per client network
// address per bucket.
func DefaultBuckets() []Bucket {
	return []Bucket{
		{Name: BucketBasic, Window: time.Minute, Limit: 120},
		{Name: BucketPostPut, Window: time.Minute, Limit: 60},
		{Name: BucketPlace, Window: time.Minute, Limit: 10},
		{Name: BucketLogin, Window: time.Minute, Limit: 3},
		{Name: BucketUpload, Window: time.Minute, Limit: 5},
	}
}
