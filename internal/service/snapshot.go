package service

import "context"

func (s *Service) ImportSnapshot(ctx context.Context, raw []byte) (err error) {
	started := s.now()
	defer func() {
		s.instrument("snapshot.import", started, err, map[string]string{"bytes": itoa(len(raw))})
	}()

	if err := s.importer.Import(ctx, raw); err != nil {
		return err
	}
	s.log.Infow("snapshot imported", map[string]any{"bytes": len(raw)})
	return nil
}

func (s *Service) ExportSnapshot(ctx context.Context) (payload []byte, err error) {
	started := s.now()
	defer func() {
		s.instrument("snapshot.export", started, err, nil)
	}()

	return s.importer.Export(ctx)
}
