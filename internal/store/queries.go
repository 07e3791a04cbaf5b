package store

// SQL query constants. PostgresStore methods reference these.

const (
	queryInsertItem = `
		INSERT INTO items (
			id, date, title, description, location, city,
			phone_number, user_name, user_id
		) VALUES (
			@id, @date, @title, @description, @location, @city,
			@phone_number, @user_name, @user_id
		)`

	queryGetItem = baseItemsSelect + ` WHERE id = $1`

	queryUpdateItem = `
		UPDATE items SET
			title = @title,
			description = @description,
			location = @location,
			city = @city,
			phone_number = @phone_number,
			user_name = @user_name,
			user_id = @user_id,
			updated_at = now()
		WHERE id = @id`

	queryDeleteItem = `DELETE FROM items WHERE id = $1`
)
