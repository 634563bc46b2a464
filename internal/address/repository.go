package address

import "errors"

var ErrNotFound = errors.New("address not found")

// Repository persists the per-user address book. Timestamps are passed in by
// the service, same convention as the cart and order repositories.
type Repository interface {
	GetAddresses(userID int) ([]Address, error)
	AddAddress(userID int, addressDesc, phone, addressName, now string) (Address, error)
	UpdateAddress(userID int, addressID int, addressDesc, phone, addressName, now string) (Address, error)
	DeleteAddress(userID int, addressID int) error
}

type InMemoryRepository struct {
	data   map[int][]Address
	nextID int
}

func NewInMemoryRepository(seed map[int][]Address) *InMemoryRepository {
	r := &InMemoryRepository{data: seed}
	for _, addrs := range seed {
		for _, a := range addrs {
			if a.AddressID > r.nextID {
				r.nextID = a.AddressID
			}
		}
	}
	return r
}

func (r *InMemoryRepository) GetAddresses(userID int) ([]Address, error) {
	if addrs, ok := r.data[userID]; ok {
		return addrs, nil
	}
	return []Address{}, nil
}

func (r *InMemoryRepository) AddAddress(userID int, addressDesc, phone, addressName, now string) (Address, error) {
	r.nextID++
	addr := Address{
		AddressID:   r.nextID,
		UserID:      userID,
		AddressDesc: addressDesc,
		Phone:       phone,
		AddressName: addressName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.data[userID] = append(r.data[userID], addr)
	return addr, nil
}

func (r *InMemoryRepository) UpdateAddress(userID int, addressID int, addressDesc, phone, addressName, now string) (Address, error) {
	for i, a := range r.data[userID] {
		if a.AddressID == addressID {
			a.AddressDesc = addressDesc
			a.Phone = phone
			a.AddressName = addressName
			a.UpdatedAt = now
			r.data[userID][i] = a
			return a, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) DeleteAddress(userID int, addressID int) error {
	addrs := r.data[userID]
	for i, a := range addrs {
		if a.AddressID == addressID {
			r.data[userID] = append(addrs[:i], addrs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
