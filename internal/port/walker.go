package port

type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	RelPath string
	ModTime int64
	Size    int64
}
