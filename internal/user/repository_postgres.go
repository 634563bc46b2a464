package user

import (
	"database/sql"
	"strconv"
	"strings"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	userColumns = `"userId", email, password, "firstName", "lastName", phone, gender, role, avatar_pic, "mainAddressId", array_to_string("favoriteProductId", ',') AS favorites_text, "createAt", "updateAt"`

	listUsersQuery = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY "userId"
	`
	getUserByIDQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE "userId" = $1
	`
	getUserByEmailQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`

	insertUserQuery = `
		INSERT INTO users (email, password, "firstName", "lastName", phone, gender, role, "createAt", "updateAt", avatar_pic)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING "userId"
	`
	updateUserQuery = `
		UPDATE users
		SET email = $1,
			"firstName" = $2,
			"lastName" = $3,
			phone = $4,
			gender = $5,
			avatar_pic = $6,
			"mainAddressId" = $7,
			"updateAt" = $8
		WHERE "userId" = $9
	`
	deleteUserQuery = `DELETE FROM users WHERE "userId" = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []User {
	rows, err := r.db.Query(listUsersQuery)
	if err != nil {
		return []User{}
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			continue
		}
		users = append(users, user)
	}

	return users
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	row := r.db.QueryRow(getUserByIDQuery, id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	row := r.db.QueryRow(getUserByEmailQuery, email)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	return user, nil
}

func (r *PostgresRepository) Create(user User) (User, error) {
	var id int
	// avatarPic may be nil
	avatarVal := sql.NullString{}
	if user.AvatarPic != nil {
		avatarVal = sql.NullString{String: *user.AvatarPic, Valid: true}
	}
	role := user.Role
	if role == "" {
		role = "customer"
	}
	err := r.db.QueryRow(
		insertUserQuery,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Gender,
		role,
		user.CreatedAt,
		user.UpdatedAt,
		avatarVal,
	).Scan(&id)
	if err != nil {
		return User{}, err
	}

	user.ID = id
	user.Role = role
	return user, nil
}

func (r *PostgresRepository) Update(id int, userUpdate User) (User, error) {
	// a nil AvatarPic must reach the database as NULL, not an empty string
	var avatarArg interface{}
	if userUpdate.AvatarPic != nil {
		avatarArg = *userUpdate.AvatarPic
	}
	var mainAddrArg interface{}
	if userUpdate.MainAddressID != nil {
		mainAddrArg = *userUpdate.MainAddressID
	}
	result, err := r.db.Exec(
		updateUserQuery,
		userUpdate.Email,
		userUpdate.FirstName,
		userUpdate.LastName,
		userUpdate.Phone,
		userUpdate.Gender,
		avatarArg,
		mainAddrArg,
		userUpdate.UpdatedAt,
		id,
	)
	if err != nil {
		return User{}, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if affected == 0 {
		return User{}, ErrNotFound
	}

	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteUserQuery, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanUser(scanner rowScanner) (User, error) {
	user := User{}
	var favText sql.NullString
	var avatar sql.NullString
	var role sql.NullString
	var mainAddr sql.NullInt64
	var createdAt sql.NullString
	var updatedAt sql.NullString

	if err := scanner.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Gender,
		&role,
		&avatar,
		&mainAddr,
		&favText,
		&createdAt,
		&updatedAt,
	); err != nil {
		return User{}, err
	}

	if role.Valid {
		user.Role = role.String
	}
	if avatar.Valid {
		user.AvatarPic = &avatar.String
	}
	if mainAddr.Valid {
		id := int(mainAddr.Int64)
		user.MainAddressID = &id
	}

	if favText.Valid && favText.String != "" {
		parts := strings.Split(favText.String, ",")
		user.FavoriteProductIDs = make([]int, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			v, err := strconv.Atoi(p)
			if err != nil {
				return User{}, err
			}
			user.FavoriteProductIDs = append(user.FavoriteProductIDs, v)
		}
	}

	if createdAt.Valid {
		user.CreatedAt = createdAt.String
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.String
	}

	return user, nil
}
