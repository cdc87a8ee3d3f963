// Package storage manages the image directory for the download batch.
//
// The storage package handles:
//   - Slugifying animal names into stable filenames
//   - Saving images with atomic write operations
//   - Detecting images that earlier runs already downloaded
//   - Checking destination volume free space before a batch
//
// The Manager type is the primary interface for storage operations. It
// maintains an in-memory index of resolved images for fast duplicate
// detection and provides atomic file writing to prevent corruption.
//
// Usage:
//
//	manager, err := storage.NewManager("data/images")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if !manager.HasImage("African elephant") {
//	    path, err := manager.Save(imageReader, "African elephant")
//	    if err != nil {
//	        log.Printf("Failed to save image: %v", err)
//	    }
//	    _ = path // data/images/african-elephant.jpg
//	}
package storage
