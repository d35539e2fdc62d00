// Package watch re-runs analyses when configuration files change on disk.
//
// A Watcher observes files and directories through fsnotify and hands
// debounced, sorted batches of changed paths to a callback:
//
//	w, err := watch.New(watch.Config{
//		Paths:      []string{"configs/"},
//		Debounce:   300 * time.Millisecond,
//		Extensions: []string{".yaml", ".toml"},
//		SkipHidden: true,
//	}, logger)
//	...
//	err = w.Watch(ctx, func(paths []string) {
//		for _, p := range paths {
//			analyzeFile(ctx, p)
//		}
//	})
package watch
