package service

import "errors"

var (
	// ErrValidation - отсутствующие или некорректные поля запроса
	ErrValidation = errors.New("validation failed")
	// ErrNoResponderAvailable - ни один спасатель не покрывает точку
	ErrNoResponderAvailable = errors.New("no responder available")
	// ErrStorage - сбой хранилища; при приёме алерта возвращается только до его сохранения
	ErrStorage = errors.New("storage failure")
	// ErrClassificationInfrastructure - сервер не смог прочитать принятое изображение
	ErrClassificationInfrastructure = errors.New("classification infrastructure failure")
	// ErrAlertNotFound - алерт с таким id не существует
	ErrAlertNotFound = errors.New("alert not found")
	// ErrAlertNotPending - повторное оповещение возможно только для pending-алерта
	ErrAlertNotPending = errors.New("alert is not pending")
	// ErrResponderNotFound - спасатель с таким id не существует
	ErrResponderNotFound = errors.New("responder not found")
	// ErrWorkflowNotConfigured - workflow оповещения не настроен
	ErrWorkflowNotConfigured = errors.New("notification workflow is not configured")
	// ErrNotificationFailed - workflow оповещения недоступен или отклонил запуск
	ErrNotificationFailed = errors.New("notification failed")
)
