package listing

import (
	"fmt"

	"arcdiff/internal/model"
)

func singleConfig(props map[string]string) (model.SingleArchiveConfig, error) {
	var cfg model.SingleArchiveConfig
	var err error

	path, ok := props["Path"]
	if !ok || path == "" {
		return cfg, ErrMissingPath
	}
	cfg.Path = path
	cfg.Type = model.ParseArchiveType(props["Type"])
	if cfg.PhysicalSize, err = decodeInt(props["Physical Size"]); err != nil {
		return cfg, fmt.Errorf("physical size: %w", err)
	}
	if cfg.LastModified, err = decodeTime(props["Modified"]); err != nil {
		return cfg, fmt.Errorf("modified: %w", err)
	}
	if cfg.Size, err = decodeOptionalInt(props, "Size"); err != nil {
		return cfg, err
	}
	if cfg.PackedSize, err = decodeOptionalInt(props, "Packed Size"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func buildSingle(props map[string]string, entries []model.Entry) (*model.SingleArchive, error) {
	cfg, err := singleConfig(props)
	if err != nil {
		return nil, err
	}
	return model.NewSingleArchive(cfg, entries)
}

func buildSplit(outer, nested map[string]string, entries []model.Entry) (*model.SplitArchive, error) {
	inner, err := buildSingle(nested, entries)
	if err != nil {
		return nil, fmt.Errorf("nested archive: %w", err)
	}

	var cfg model.SplitArchiveConfig
	path, ok := outer["Path"]
	if !ok || path == "" {
		return nil, ErrMissingPath
	}
	cfg.Path = path
	cfg.Type = model.ParseArchiveType(outer["Type"])
	if cfg.PhysicalSize, err = decodeInt(outer["Physical Size"]); err != nil {
		return nil, fmt.Errorf("physical size: %w", err)
	}
	if cfg.TotalPhysicalSize, err = decodeInt(outer["Total Physical Size"]); err != nil {
		return nil, fmt.Errorf("total physical size: %w", err)
	}
	if cfg.LastModified, err = decodeTime(outer["Modified"]); err != nil {
		return nil, fmt.Errorf("modified: %w", err)
	}
	return model.NewSplitArchive(cfg, inner)
}
