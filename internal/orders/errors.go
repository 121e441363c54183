package orders

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Типизированные ошибки ядра оформления заказа. Сервисный слой возвращает их
// из транзакции, обработчики переводят в HTTP-ответы через HTTPError.

var ErrEmptyOrder = errors.New("заказ не содержит ни одной позиции")

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type NotFoundError struct {
	Entity string // "клиент", "продукт", "серия", "заказ"
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s с ID %d не найден", e.Entity, e.ID)
}

type SeriesProductMismatchError struct {
	SeriesID  uint
	ProductID uint
}

func (e *SeriesProductMismatchError) Error() string {
	return fmt.Sprintf("серия '%d' не принадлежит продукту '%d'", e.SeriesID, e.ProductID)
}

type InsufficientStockError struct {
	SeriesID  uint
	Requested float64
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("недостаточно остатков для серии '%d': запрошено %g, доступно %g",
		e.SeriesID, e.Requested, e.Available)
}

type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// HTTPError: перевод ошибки ядра в fiber.Error с нужным статусом.
// Неизвестные ошибки уходят наверх как есть — их поймает центральный обработчик.
func HTTPError(err error) error {
	if err == nil {
		return nil
	}

	var (
		validation   *ValidationError
		notFound     *NotFoundError
		mismatch     *SeriesProductMismatchError
		insufficient *InsufficientStockError
		conflict     *ConflictError
	)

	switch {
	case errors.Is(err, ErrEmptyOrder):
		return fiber.NewError(fiber.StatusBadRequest, "Корзина пуста, заказ создать нельзя")
	case errors.As(err, &validation):
		return fiber.NewError(fiber.StatusBadRequest, validation.Msg)
	case errors.As(err, &notFound):
		return fiber.NewError(fiber.StatusNotFound, "Не найдено: "+notFound.Error())
	case errors.As(err, &mismatch):
		return fiber.NewError(fiber.StatusBadRequest, "Ошибка валидации: "+mismatch.Error())
	case errors.As(err, &insufficient):
		return fiber.NewError(fiber.StatusBadRequest, "Отказ: "+insufficient.Error())
	case errors.As(err, &conflict):
		return fiber.NewError(fiber.StatusConflict, conflict.Msg)
	}

	return err
}
