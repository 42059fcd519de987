// Package async provides a minimal Future abstraction for running dependent
// queries concurrently and joining on their results.
//
//	profileF := async.Go(ctx, fetchProfile)
//	usageF := async.Go(ctx, fetchUsage)
//
//	record, err := profileF.Await()
//	count, usageErr := usageF.Await()
package async
