package outlet

// Service provides business logic for outlet endpoints.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List(limit int) []Outlet {
	items, err := s.repo.List(limit)
	if err != nil {
		return []Outlet{}
	}
	return items
}

func (s *Service) ListLite(limit int) []LiteOutlet {
	items, err := s.repo.ListLite(limit)
	if err != nil {
		return []LiteOutlet{}
	}
	return items
}
